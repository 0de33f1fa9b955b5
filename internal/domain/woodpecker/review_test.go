package woodpecker

import (
	"testing"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graduatedState(interval, streak int, ef float64) domain.LearningState {
	return domain.LearningState{
		IsGraduated: true,
		Interval:    interval,
		Streak:      streak,
		EaseFactor:  ef,
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	testCases := []struct {
		name     string
		ef       float64
		grade    domain.UserGrade
		expected float64
	}{
		{"wrongHard lowers by 0.8", 2.5, domain.GradeWrongHard, 1.7},
		{"wrong lowers by 0.5", 2.5, domain.GradeWrong, 2.0},
		{"correct keeps", 2.5, domain.GradeCorrect, 2.5},
		{"correctEasy raises by 0.1", 2.5, domain.GradeCorrectEasy, 2.6},
		{"wrongHard is floored", 1.5, domain.GradeWrongHard, 1.3},
		{"wrong at floor stays at floor", 1.3, domain.GradeWrong, 1.3},
		{"no ceiling", 4.0, domain.GradeCorrectEasy, 4.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, calculateNewEaseFactor(tc.ef, tc.grade, params), 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	assert.Equal(t, 1, calculateNewInterval(0, 0, 2.5, params))
	assert.Equal(t, 6, calculateNewInterval(1, 1, 2.5, params))
	assert.Equal(t, 15, calculateNewInterval(6, 2, 2.5, params))
	// 5 * 1.3 = 6.5 rounds half away from zero
	assert.Equal(t, 7, calculateNewInterval(5, 3, 1.3, params))
	assert.Equal(t, 13, calculateNewInterval(10, 4, 1.3, params))
}

func TestApplyReview(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		state    domain.LearningState
		grade    domain.UserGrade
		expected domain.LearningState
	}{
		{
			name:     "first correct review",
			state:    graduatedState(1, 0, 2.5),
			grade:    domain.GradeCorrect,
			expected: graduatedState(1, 1, 2.5),
		},
		{
			name:     "second correct review",
			state:    graduatedState(1, 1, 2.5),
			grade:    domain.GradeCorrect,
			expected: graduatedState(6, 2, 2.5),
		},
		{
			name:     "grown interval uses original ease factor",
			state:    graduatedState(6, 2, 2.5),
			grade:    domain.GradeCorrectEasy,
			expected: graduatedState(15, 3, 2.6),
		},
		{
			name:     "wrong resets streak and interval",
			state:    graduatedState(15, 3, 2.5),
			grade:    domain.GradeWrong,
			expected: graduatedState(1, 0, 2.0),
		},
		{
			name:  "wrongHard demotes to learning",
			state: graduatedState(15, 3, 2.5),
			grade: domain.GradeWrongHard,
			expected: domain.LearningState{
				IsGraduated: false,
				Interval:    0,
				Streak:      0,
				EaseFactor:  1.7,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := ApplyReview(tc.state, tc.grade)
			require.NoError(t, err)
			assert.Equal(t, tc.expected.IsGraduated, next.IsGraduated)
			assert.Equal(t, tc.expected.Interval, next.Interval)
			assert.Equal(t, tc.expected.Streak, next.Streak)
			assert.Equal(t, 0, next.Step)
			assert.InDelta(t, tc.expected.EaseFactor, next.EaseFactor, 1e-9)
		})
	}
}

func TestApplyReviewErrors(t *testing.T) {
	t.Parallel()

	_, err := ApplyReview(domain.NewLearningState(), domain.GradeCorrect)
	assert.ErrorIs(t, err, domain.ErrNotGraduated)

	withStep := graduatedState(1, 1, 2.5)
	withStep.Step = 2
	_, err = ApplyReview(withStep, domain.GradeCorrect)
	assert.ErrorIs(t, err, domain.ErrStepNotZero)

	_, err = ApplyReview(graduatedState(1, 1, 2.5), domain.UserGrade(42))
	assert.ErrorIs(t, err, domain.ErrInvalidGrade)
}

func TestApplyReviewLaws(t *testing.T) {
	t.Parallel()

	efs := []float64{1.3, 1.4, 1.8, 2.5, 3.1}
	intervals := []int{0, 1, 6, 15, 120}

	for _, ef := range efs {
		for _, interval := range intervals {
			for streak := 0; streak < 4; streak++ {
				for _, grade := range domain.AllGrades() {
					state := graduatedState(interval, streak, ef)
					next, err := ApplyReview(state, grade)
					require.NoError(t, err)

					assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)

					switch {
					case grade.IsPassing():
						assert.Equal(t, streak+1, next.Streak)
						assert.True(t, next.IsGraduated)
						if streak >= 1 {
							assert.GreaterOrEqual(t, next.Interval, min(interval, 6))
						}
					case grade == domain.GradeWrong:
						assert.Equal(t, 0, next.Streak)
						assert.Equal(t, 1, next.Interval)
						assert.True(t, next.IsGraduated)
					default:
						assert.Equal(t, 0, next.Streak)
						assert.Equal(t, 0, next.Interval)
						assert.False(t, next.IsGraduated)
					}
				}
			}
		}
	}
}

// Ten wrongHard answers in a row never push the ease factor under the floor.
func TestEaseFactorFloorScenario(t *testing.T) {
	t.Parallel()

	ef := 2.5
	for range 10 {
		ef = calculateNewEaseFactor(ef, domain.GradeWrongHard, NewDefaultParams())
		assert.GreaterOrEqual(t, ef, domain.MinEaseFactor)
	}
	assert.InDelta(t, domain.MinEaseFactor, ef, 1e-9)
}

func TestGraduationThenReviews(t *testing.T) {
	t.Parallel()

	state := domain.NewLearningState()
	destiny, err := Stepper(state.Step, domain.GradeCorrectEasy, 3)
	require.NoError(t, err)
	state = ApplyDestiny(state, destiny)
	require.True(t, state.IsGraduated)

	intervals := []int{}
	for range 4 {
		state, err = ApplyReview(state, domain.GradeCorrect)
		require.NoError(t, err)
		intervals = append(intervals, state.Interval)
	}

	// Graduation sets streak 1, so the first review already uses the second interval.
	assert.Equal(t, []int{6, 15, 38, 95}, intervals)
}
