// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, and a Repository
// that combines them into the persistence port of the study service.
//
// Statements are built with squirrel using dollar placeholders and executed
// through database/sql on top of the pgx stdlib driver. Schema migrations are
// embedded and applied with goose.
package postgres
