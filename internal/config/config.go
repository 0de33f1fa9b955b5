package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RedisConfig configures the optional session cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// StudyConfig holds the defaults applied to decks without their own
// spaced repetition settings, plus tuning for session saves.
type StudyConfig struct {
	MaxLearningCards  int `mapstructure:"max_learning_cards" validate:"gte=0"`
	MaxReviewingCards int `mapstructure:"max_reviewing_cards" validate:"gte=1"`
	NumberOfSteps     int `mapstructure:"number_of_steps" validate:"gte=2"`

	// SaveConcurrency bounds the number of parallel card writes per save.
	SaveConcurrency int `mapstructure:"save_concurrency" validate:"gte=1,lte=64"`

	Review ReviewConfig `mapstructure:"review"`
}

// ReviewConfig tunes the review phase of graduated cards.
type ReviewConfig struct {
	MinEaseFactor float64 `mapstructure:"min_ease_factor" validate:"gt=0"`

	WrongHardAdjustment   float64 `mapstructure:"wrong_hard_adjustment" validate:"lte=0"`
	WrongAdjustment       float64 `mapstructure:"wrong_adjustment" validate:"lte=0"`
	CorrectAdjustment     float64 `mapstructure:"correct_adjustment"`
	CorrectEasyAdjustment float64 `mapstructure:"correct_easy_adjustment" validate:"gte=0"`

	FirstInterval  int `mapstructure:"first_interval" validate:"gte=1"`
	SecondInterval int `mapstructure:"second_interval" validate:"gte=1"`
	LapseInterval  int `mapstructure:"lapse_interval" validate:"gte=1"`
}
