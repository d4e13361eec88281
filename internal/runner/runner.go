package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/aptiz/internal/assessment"
)

// AnswerFunc produces the option label to submit for a question.
// Implementations range from stdin prompts to scripted answers in tests.
type AnswerFunc func(ctx context.Context, q *assessment.Question) (string, error)

// Outcome records one graded question.
type Outcome struct {
	Question assessment.Question

	// Selected is the label that was submitted.
	Selected string

	Correct       bool
	CorrectAnswer string

	// Seconds is how long the answer took, as reported to the server.
	Seconds float64
}

// Runner drives one assessment attempt end to end: start a session, then
// fetch, answer, and submit until the server says the session is done.
type Runner struct {
	svc      assessment.Service
	answer   AnswerFunc
	progress func(Outcome)
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers an observer invoked after each graded answer.
func WithProgress(f func(Outcome)) Option {
	return func(r *Runner) { r.progress = f }
}

// WithClock replaces the time source used for per-question timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner over the given service.
func New(svc assessment.Service, answer AnswerFunc, opts ...Option) *Runner {
	r := &Runner{svc: svc, answer: answer, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one full assessment. The loop ends when a submit result
// carries SessionComplete, or when the next fetch reports the session
// done for servers that never set the flag.
func (r *Runner) Run(ctx context.Context, in assessment.StartInput) (*Summary, error) {
	sess, err := r.svc.Start(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start assessment: %w", err)
	}

	started := r.now()
	summary := &Summary{Session: sess}

	for {
		q, err := r.svc.NextQuestion(ctx, sess.ID)
		if errors.Is(err, assessment.ErrSessionComplete) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetch question %d: %w", len(summary.Outcomes)+1, err)
		}

		asked := r.now()
		selected, err := r.answer(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("answer question %d: %w", q.Number, err)
		}
		spent := r.now().Sub(asked).Seconds()

		res, err := r.svc.SubmitAnswer(ctx, assessment.Submission{
			SessionID:  sess.ID,
			QuestionID: q.ID,
			Selected:   selected,
			TimeSpent:  spent,
		})
		if err != nil {
			return nil, fmt.Errorf("submit question %d: %w", q.Number, err)
		}

		out := Outcome{
			Question:      *q,
			Selected:      selected,
			Correct:       res.Correct,
			CorrectAnswer: res.CorrectAnswer,
			Seconds:       spent,
		}
		summary.Outcomes = append(summary.Outcomes, out)
		if res.Correct {
			summary.Correct++
		}
		if r.progress != nil {
			r.progress(out)
		}

		if res.SessionComplete {
			summary.Final = res.Final
			break
		}
	}

	summary.Total = len(summary.Outcomes)
	summary.Duration = r.now().Sub(started)
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total) * 100
	}
	return summary, nil
}
