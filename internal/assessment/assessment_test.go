package assessment

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestMock_ReturnsCannedResults(t *testing.T) {
	mock := NewMock()
	mock.AddQuestion(MockQuestion{Question: &Question{ID: "q-1", Number: 1}})
	mock.AddQuestion(MockQuestion{Question: &Question{ID: "q-2", Number: 2}})

	q1, err := mock.NextQuestion(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q1.ID != "q-1" {
		t.Fatalf("expected q-1 first, got %q", q1.ID)
	}

	q2, err := mock.NextQuestion(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q2.ID != "q-2" {
		t.Fatalf("expected q-2 second, got %q", q2.ID)
	}
}

func TestMock_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMock()
	_, err := mock.Start(context.Background(), StartInput{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got: %T", err)
	}
}

func TestMock_RecordsCalls(t *testing.T) {
	mock := NewMock()
	mock.AddStart(MockStart{Session: &Session{ID: "sess-1"}})
	mock.AddAnswer(MockAnswer{Result: &AnswerResult{Correct: true}})

	_, _ = mock.Start(context.Background(), StartInput{StudentName: "Alice", QuestionCount: 5})
	_, _ = mock.SubmitAnswer(context.Background(), Submission{SessionID: "sess-1", Selected: "C"})
	mock.Health(context.Background())

	if len(mock.StartCalls) != 1 || mock.StartCalls[0].StudentName != "Alice" {
		t.Fatalf("unexpected start calls: %+v", mock.StartCalls)
	}
	if len(mock.SubmitCalls) != 1 || mock.SubmitCalls[0].Selected != "C" {
		t.Fatalf("unexpected submit calls: %+v", mock.SubmitCalls)
	}
	if mock.HealthCalls != 1 {
		t.Fatalf("expected 1 health call, got %d", mock.HealthCalls)
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	_, err := NewService(Config{BaseURL: "not a url at all\x00"}, nil)
	if err == nil {
		t.Fatal("expected error for a broken base URL")
	}

	_, err = NewService(Config{}, nil)
	if err == nil {
		t.Fatal("expected error for a missing base URL")
	}
}

func TestNewService_RetryOptIn(t *testing.T) {
	cfg := DefaultConfig()
	svc, err := NewService(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := svc.(*Client); !ok {
		t.Fatalf("expected a bare Client by default, got %T", svc)
	}

	cfg.Retry = DefaultRetryConfig()
	svc, err = NewService(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := svc.(*RetryService); !ok {
		t.Fatalf("expected retry wrapping when configured, got %T", svc)
	}
}

func TestNewService_LoggingLayer(t *testing.T) {
	cfg := DefaultConfig()
	svc, err := NewService(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := svc.(*LoggingService); !ok {
		t.Fatalf("expected logging wrapping with a logger, got %T", svc)
	}
}
