package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/aptiz/internal/assessment"
)

func threeQuestionMock(t *testing.T) *assessment.Mock {
	t.Helper()

	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Session: &assessment.Session{
		ID:            "sess-1",
		Subject:       "quantitative_aptitude",
		Chapter:       "percentages",
		QuestionCount: 3,
		Type:          "assessment",
	}})

	for i := 1; i <= 3; i++ {
		mock.AddQuestion(assessment.MockQuestion{Question: &assessment.Question{
			ID:      fmt.Sprintf("pct-%03d", i),
			Number:  i,
			Text:    "What is 10% of 50?",
			Options: map[string]string{"A": "5", "B": "10", "C": "15", "D": "50"},
		}})
	}

	// First two answers right, last one wrong and final.
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{
		Correct: true, CorrectAnswer: "A", QuestionNumber: 1, TotalQuestions: 3, Score: 1,
	}})
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{
		Correct: true, CorrectAnswer: "A", QuestionNumber: 2, TotalQuestions: 3, Score: 2,
	}})
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{
		Correct: false, CorrectAnswer: "B", QuestionNumber: 3, TotalQuestions: 3, Score: 2,
		SessionComplete: true,
		Final: &assessment.FinalResults{
			TotalQuestions: 3, CorrectAnswers: 2, IncorrectAnswers: 1, Accuracy: 66.7,
		},
	}})

	return mock
}

func TestRunner_FullSession(t *testing.T) {
	mock := threeQuestionMock(t)

	var observed []Outcome
	r := New(mock,
		func(_ context.Context, q *assessment.Question) (string, error) { return "A", nil },
		WithProgress(func(o Outcome) { observed = append(observed, o) }),
	)

	summary, err := r.Run(context.Background(), assessment.StartInput{
		StudentName:   "Alice",
		Subject:       "quantitative_aptitude",
		Chapter:       "percentages",
		QuestionCount: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 3 {
		t.Fatalf("expected 3 outcomes, got %d", summary.Total)
	}
	if summary.Correct != 2 {
		t.Fatalf("expected 2 correct, got %d", summary.Correct)
	}
	if summary.Final == nil || summary.Final.CorrectAnswers != 2 {
		t.Fatalf("expected server final results, got %+v", summary.Final)
	}
	if len(observed) != 3 {
		t.Fatalf("expected 3 progress callbacks, got %d", len(observed))
	}
	if observed[2].CorrectAnswer != "B" {
		t.Fatalf("unexpected last outcome: %+v", observed[2])
	}

	// Every submission must carry the session and the fetched question.
	if len(mock.SubmitCalls) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(mock.SubmitCalls))
	}
	for i, sub := range mock.SubmitCalls {
		if sub.SessionID != "sess-1" {
			t.Fatalf("submission %d has wrong session: %q", i, sub.SessionID)
		}
		if sub.QuestionID != fmt.Sprintf("pct-%03d", i+1) {
			t.Fatalf("submission %d has wrong question: %q", i, sub.QuestionID)
		}
	}
	// The fetch after the final submit never happens.
	if len(mock.QuestionCalls) != 3 {
		t.Fatalf("expected 3 fetches, got %d", len(mock.QuestionCalls))
	}
}

func TestRunner_StopsOnCompletionSignal(t *testing.T) {
	// A server that never sets the submit flag still terminates the loop
	// through the completion signal on the next fetch.
	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Session: &assessment.Session{ID: "sess-1", QuestionCount: 1}})
	mock.AddQuestion(assessment.MockQuestion{Question: &assessment.Question{ID: "q-1", Number: 1}})
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{Correct: true, Score: 1}})
	mock.AddQuestion(assessment.MockQuestion{Err: &assessment.SessionCompleteError{Message: "Assessment session is complete"}})

	r := New(mock, func(_ context.Context, q *assessment.Question) (string, error) { return "A", nil })

	summary, err := r.Run(context.Background(), assessment.StartInput{StudentName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("expected 1 outcome, got %d", summary.Total)
	}
	if summary.Final != nil {
		t.Fatalf("no server totals were sent, got %+v", summary.Final)
	}
	if len(mock.QuestionCalls) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(mock.QuestionCalls))
	}
}

func TestRunner_QuestionFailureAborts(t *testing.T) {
	// A mid-session fetch failure is an error; only a real completion
	// signal may end the loop without one.
	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Session: &assessment.Session{ID: "sess-1", QuestionCount: 3}})
	mock.AddQuestion(assessment.MockQuestion{Question: &assessment.Question{ID: "q-1", Number: 1}})
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{Correct: true, Score: 1}})
	mock.AddQuestion(assessment.MockQuestion{Err: errors.New("answer sheet incomplete, resubmit required")})

	r := New(mock, func(_ context.Context, q *assessment.Question) (string, error) { return "A", nil })

	summary, err := r.Run(context.Background(), assessment.StartInput{StudentName: "Alice"})
	if err == nil {
		t.Fatalf("expected error, got summary: %+v", summary)
	}
	if errors.Is(err, assessment.ErrSessionComplete) {
		t.Fatalf("a failure must not read as completion: %v", err)
	}
}

func TestRunner_AnswerErrorAborts(t *testing.T) {
	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Session: &assessment.Session{ID: "sess-1"}})
	mock.AddQuestion(assessment.MockQuestion{Question: &assessment.Question{ID: "q-1", Number: 1}})

	r := New(mock, func(_ context.Context, q *assessment.Question) (string, error) {
		return "", errors.New("input closed")
	})

	_, err := r.Run(context.Background(), assessment.StartInput{StudentName: "Alice"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(mock.SubmitCalls) != 0 {
		t.Fatalf("nothing should have been submitted, got %d", len(mock.SubmitCalls))
	}
}

func TestRunner_StartFailure(t *testing.T) {
	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Err: &assessment.TransportError{Status: 503, Body: "overloaded"}})

	r := New(mock, func(_ context.Context, q *assessment.Question) (string, error) { return "A", nil })

	_, err := r.Run(context.Background(), assessment.StartInput{StudentName: "Alice"})
	if err == nil {
		t.Fatal("expected error")
	}
	var te *assessment.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError in the chain, got: %v", err)
	}
}

func TestRunner_Timing(t *testing.T) {
	mock := assessment.NewMock()
	mock.AddStart(assessment.MockStart{Session: &assessment.Session{ID: "sess-1", Chapter: "percentages"}})
	mock.AddQuestion(assessment.MockQuestion{Question: &assessment.Question{ID: "q-1", Number: 1}})
	mock.AddAnswer(assessment.MockAnswer{Result: &assessment.AnswerResult{
		Correct: true, SessionComplete: true,
	}})

	// Scripted clock: every read advances 10 seconds.
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		now := base.Add(time.Duration(calls) * 10 * time.Second)
		calls++
		return now
	}

	r := New(mock,
		func(_ context.Context, q *assessment.Question) (string, error) { return "A", nil },
		WithClock(clock),
	)

	summary, err := r.Run(context.Background(), assessment.StartInput{StudentName: "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mock.SubmitCalls[0].TimeSpent; got != 10.0 {
		t.Fatalf("expected 10s spent on the question, got %v", got)
	}
	if summary.Outcomes[0].Seconds != 10.0 {
		t.Fatalf("expected 10s in the outcome, got %v", summary.Outcomes[0].Seconds)
	}
	if summary.Duration != 30*time.Second {
		t.Fatalf("expected 30s total, got %v", summary.Duration)
	}
}

func TestSummary_Lines(t *testing.T) {
	s := &Summary{
		Session:  &assessment.Session{Subject: "quantitative_aptitude", Chapter: "percentages"},
		Correct:  7,
		Total:    10,
		Accuracy: 70,
		Duration: 3*time.Minute + 4*time.Second,
		Final: &assessment.FinalResults{
			TotalQuestions: 10, CorrectAnswers: 7, IncorrectAnswers: 3, Accuracy: 70,
		},
	}

	lines := s.Lines()
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Chapter: percentages (quantitative_aptitude)" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[2] != "Correct: 7 (70%)" {
		t.Fatalf("unexpected correct line: %q", lines[2])
	}
	if lines[4] != "Server score: 7/10 (70%)" {
		t.Fatalf("unexpected server line: %q", lines[4])
	}
}
