package assessment

import (
	"testing"

	course "edutrek/models/course"

	"github.com/stretchr/testify/assert"
)

func bank(n int) []course.Question {
	qs := make([]course.Question, n)
	for i := range qs {
		qs[i] = course.Question{
			Prompt:      "q",
			Options:     []string{"a", "b", "c", "d"},
			AnswerIndex: i % 4,
		}
	}
	return qs
}

// Scenario: 4 questions, passing score 70, 3 of 4 correct -> 75%, passed,
// certificate eligible.
func TestScoreThreeOfFourPasses(t *testing.T) {
	qs := bank(4)
	answers := []Answer{{0}, {1}, {2}, {0}} // last one wrong (correct is 3)

	res := Score(qs, answers, 70)
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.True(t, res.Passed)
	assert.True(t, res.CertificateEligible)
	assert.Len(t, res.QuestionResults, 4)
	assert.False(t, res.QuestionResults[3].Correct)
	assert.Equal(t, 3, res.QuestionResults[3].CorrectIndex)
}

func TestScoreBelowPassingFails(t *testing.T) {
	qs := bank(4)
	answers := []Answer{{0}, {1}, {0}, {0}} // 2 of 4

	res := Score(qs, answers, 70)
	assert.Equal(t, 50, res.Score)
	assert.False(t, res.Passed)
	assert.False(t, res.CertificateEligible)
}

func TestScoreUnansweredCountsWrong(t *testing.T) {
	qs := bank(2)
	// One short answer slice and one explicit Unanswered.
	res := Score(qs, []Answer{{Unanswered}}, 70)
	assert.Equal(t, 0, res.Correct)
	for _, qr := range res.QuestionResults {
		assert.Equal(t, Unanswered, qr.SelectedIndex)
		assert.False(t, qr.Correct)
	}
}

func TestScoreOutOfRangeSelectionIsWrong(t *testing.T) {
	qs := bank(1)
	res := Score(qs, []Answer{{SelectedIndex: 9}}, 70)
	assert.Equal(t, 0, res.Correct)
	assert.Equal(t, Unanswered, res.QuestionResults[0].SelectedIndex)
}

func TestScoreEmptyBank(t *testing.T) {
	res := Score(nil, nil, 70)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Total)
	assert.False(t, res.Passed)
	assert.False(t, res.CertificateEligible)
}

func TestScoreDefaultPassingScore(t *testing.T) {
	qs := bank(10)
	answers := make([]Answer, 10)
	for i := range answers {
		if i < 7 {
			answers[i] = Answer{SelectedIndex: i % 4}
		} else {
			answers[i] = Answer{SelectedIndex: (i%4 + 1) % 4}
		}
	}
	// 70% exactly meets the default threshold when passingScore is unset.
	res := Score(qs, answers, 0)
	assert.Equal(t, 70, res.Score)
	assert.True(t, res.Passed)
}

func TestScoreIsDeterministic(t *testing.T) {
	qs := bank(5)
	answers := []Answer{{0}, {1}, {2}, {3}, {0}}
	first := Score(qs, answers, 60)
	second := Score(qs, answers, 60)
	assert.Equal(t, first, second)
}
