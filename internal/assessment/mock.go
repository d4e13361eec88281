package assessment

import (
	"context"
	"errors"
	"sync"
)

// MockStart is a canned result for Mock.Start.
type MockStart struct {
	Session *Session
	Err     error
}

// MockQuestion is a canned result for Mock.NextQuestion.
type MockQuestion struct {
	Question *Question
	Err      error
}

// MockAnswer is a canned result for Mock.SubmitAnswer.
type MockAnswer struct {
	Result *AnswerResult
	Err    error
}

// Mock is a deterministic Service for testing. Each operation returns
// canned results in FIFO order and records the calls it received. A
// drained queue yields a TransportError so exhausted fixtures fail loudly.
type Mock struct {
	mu        sync.Mutex
	starts    []MockStart
	questions []MockQuestion
	answers   []MockAnswer

	// Healthy is what Health reports. Defaults to true via NewMock.
	Healthy bool

	StartCalls    []StartInput
	QuestionCalls []string
	SubmitCalls   []Submission
	HealthCalls   int
}

// NewMock creates an empty, healthy Mock.
func NewMock() *Mock {
	return &Mock{Healthy: true}
}

// AddStart appends a canned start result.
func (m *Mock) AddStart(r MockStart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, r)
}

// AddQuestion appends a canned question result.
func (m *Mock) AddQuestion(r MockQuestion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, r)
}

// AddAnswer appends a canned answer result.
func (m *Mock) AddAnswer(r MockAnswer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, r)
}

func (m *Mock) Start(_ context.Context, in StartInput) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartCalls = append(m.StartCalls, in)

	if len(m.starts) == 0 {
		return nil, &TransportError{Err: errors.New("mock: no canned start result")}
	}
	r := m.starts[0]
	m.starts = m.starts[1:]
	return r.Session, r.Err
}

func (m *Mock) NextQuestion(_ context.Context, sessionID string) (*Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuestionCalls = append(m.QuestionCalls, sessionID)

	if len(m.questions) == 0 {
		return nil, &TransportError{Err: errors.New("mock: no canned question result")}
	}
	r := m.questions[0]
	m.questions = m.questions[1:]
	return r.Question, r.Err
}

func (m *Mock) SubmitAnswer(_ context.Context, sub Submission) (*AnswerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubmitCalls = append(m.SubmitCalls, sub)

	if len(m.answers) == 0 {
		return nil, &TransportError{Err: errors.New("mock: no canned answer result")}
	}
	r := m.answers[0]
	m.answers = m.answers[1:]
	return r.Result, r.Err
}

func (m *Mock) Health(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthCalls++
	return m.Healthy
}
