// Package assessment holds the proctored-attempt state machine and the
// scoring engine for course assessments.
package assessment

import (
	course "edutrek/models/course"
)

// DefaultPassingScore applies when a definition has no passing score set.
const DefaultPassingScore = 70

// Unanswered marks a question the student never selected an option for.
// It never matches a correct index, so it is counted wrong.
const Unanswered = -1

// Answer is the strict submission shape. Only the selected option index is
// trusted; any correct index echoed by a client is discarded before the
// engine runs.
type Answer struct {
	SelectedIndex int `json:"selectedIndex"`
}

// QuestionResult is one per-question review entry, complete enough for a
// client to render the review screen without re-deriving anything.
type QuestionResult struct {
	Index         int      `json:"index"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	SelectedIndex int      `json:"selectedIndex"`
	Correct       bool     `json:"correct"`
}

// Result is the outcome of scoring one submission.
type Result struct {
	Score               int              `json:"score"` // percent 0-100
	Correct             int              `json:"correct"`
	Total               int              `json:"total"`
	Passed              bool             `json:"passed"`
	CertificateEligible bool             `json:"certificateEligible"`
	QuestionResults     []QuestionResult `json:"questionResults"`
}

// Score grades a submission against the stored question bank. It is a pure
// function of (questions, answers, passingScore): correctness is resolved
// from the bank's own answer indices, answers are matched to questions by
// position, and missing entries count as unanswered.
func Score(questions []course.Question, answers []Answer, passingScore int) Result {
	if passingScore <= 0 {
		passingScore = DefaultPassingScore
	}

	total := len(questions)
	correct := 0
	results := make([]QuestionResult, 0, total)

	for i, q := range questions {
		selected := Unanswered
		if i < len(answers) {
			selected = answers[i].SelectedIndex
		}
		if selected < 0 || selected >= len(q.Options) {
			selected = Unanswered
		}
		isCorrect := selected != Unanswered && selected == q.AnswerIndex
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			Index:         i,
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectIndex:  q.AnswerIndex,
			SelectedIndex: selected,
			Correct:       isCorrect,
		})
	}

	score := 0
	if total > 0 {
		score = int(float64(correct)/float64(total)*100 + 0.5)
	}
	passed := total > 0 && score >= passingScore

	return Result{
		Score:               score,
		Correct:             correct,
		Total:               total,
		Passed:              passed,
		CertificateEligible: passed,
		QuestionResults:     results,
	}
}
