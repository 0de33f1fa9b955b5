package domain

import "fmt"

// UserGrade is the user's assessment of how well a card was recalled.
// Grades are ordinal: GradeWrongHard < GradeWrong < GradeCorrect < GradeCorrectEasy.
type UserGrade int

// Possible user grades
const (
	GradeWrongHard UserGrade = iota
	GradeWrong
	GradeCorrect
	GradeCorrectEasy
)

var gradeNames = [...]string{
	GradeWrongHard:   "wrongHard",
	GradeWrong:       "wrong",
	GradeCorrect:     "correct",
	GradeCorrectEasy: "correctEasy",
}

// AllGrades lists every grade in ascending order.
func AllGrades() []UserGrade {
	return []UserGrade{GradeWrongHard, GradeWrong, GradeCorrect, GradeCorrectEasy}
}

// IsValid reports whether g is one of the four known grades.
func (g UserGrade) IsValid() bool {
	return g >= GradeWrongHard && g <= GradeCorrectEasy
}

// IsPassing reports whether the grade counts as a successful recall.
func (g UserGrade) IsPassing() bool {
	return g >= GradeCorrect
}

func (g UserGrade) String() string {
	if !g.IsValid() {
		return fmt.Sprintf("UserGrade(%d)", int(g))
	}
	return gradeNames[g]
}

// ParseGrade converts the textual form of a grade back into a UserGrade.
func ParseGrade(s string) (UserGrade, error) {
	for i, name := range gradeNames {
		if name == s {
			return UserGrade(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// MarshalText implements encoding.TextMarshaler.
func (g UserGrade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *UserGrade) UnmarshalText(text []byte) error {
	parsed, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// CardDestiny is the outcome of the learning ladder for a single grade.
type CardDestiny string

// Possible card destinies
const (
	DestinyStay     CardDestiny = "stay"
	DestinyForward  CardDestiny = "forward"
	DestinyBack     CardDestiny = "back"
	DestinyGraduate CardDestiny = "graduate"
)
