package assessment

import (
	"context"
	"encoding/json"
)

// Service is the core abstraction for talking to the assessment backend.
// One value drives one or more assessment attempts: start a session, fetch
// the current question, submit an answer, repeat until the server signals
// completion.
type Service interface {
	// Start opens a new assessment session for a student. The server owns
	// all validation; invalid input surfaces as an error from the wire,
	// never as a client-side check.
	Start(ctx context.Context, in StartInput) (*Session, error)

	// NextQuestion fetches the question the session is currently waiting
	// on. When the server has no more questions it reports completion,
	// which surfaces as an error matching ErrSessionComplete rather than
	// a transport failure. Callers loop until they see that signal or the
	// submit result's SessionComplete flag.
	NextQuestion(ctx context.Context, sessionID string) (*Question, error)

	// SubmitAnswer grades one answer and returns the running score. When
	// the graded question was the last one, the result carries
	// SessionComplete plus the final totals.
	SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error)

	// Health reports whether the backend is reachable and willing to
	// serve. It never returns an error: any transport or status problem
	// is simply false.
	Health(ctx context.Context) bool
}

// StartInput holds the parameters for starting an assessment session.
type StartInput struct {
	// StudentName identifies the student, e.g. "Alice".
	StudentName string

	// Subject and Chapter select the question pool,
	// e.g. "quantitative_aptitude" / "percentages".
	Subject string
	Chapter string

	// QuestionCount is the number of questions requested for the session.
	QuestionCount int
}

// Session describes an open assessment session as reported by the server.
type Session struct {
	// ID is the opaque session identifier. Non-empty on every successful
	// start; all subsequent calls carry it.
	ID string

	// StudentID and UserID are the server-side record identifiers for the
	// student and the owning user account.
	StudentID int64
	UserID    int64

	Subject string
	Chapter string

	// QuestionCount echoes the requested session size.
	QuestionCount int

	// Type is the session kind. Always "assessment" for sessions opened
	// through Start.
	Type string

	// Message is the server's human-readable confirmation.
	Message string
}

// Question is the question a session is currently waiting on, together
// with the session's progress through the assessment.
type Question struct {
	// ID is the opaque question identifier. Only meaningful within the
	// session that served it; the same ID may appear in other sessions.
	ID string

	// Number is the 1-based position of this question in the session.
	Number int

	// Text is the question prompt, e.g. "What is 25% of 80?".
	Text string

	// Options maps answer labels to answer text, e.g. "A" -> "20".
	// Submissions send the label, not the text.
	Options map[string]string

	// Difficulty is the server's difficulty tag, e.g. "easy", "medium".
	Difficulty string

	// Chapter is the chapter this question belongs to.
	Chapter string

	// TimeLimitSeconds is the server's suggested time limit. Zero when
	// the server imposes none. Informational only; nothing client-side
	// enforces it.
	TimeLimitSeconds int

	// AssessmentInfo is server metadata passed through untouched.
	AssessmentInfo json.RawMessage

	// Progress reports how far the session has advanced.
	Progress Progress
}

// Progress locates a session within its question sequence.
type Progress struct {
	Current int
	Total   int

	// Percent is the server-computed completion percentage, 0-100.
	Percent float64
}

// Submission is one answer on its way to the server.
type Submission struct {
	SessionID  string
	QuestionID string

	// Selected is the chosen option label, e.g. "B".
	Selected string

	// TimeSpent is how long the student took, in seconds.
	TimeSpent float64
}

// AnswerResult is the server's verdict on one submitted answer.
type AnswerResult struct {
	// Correct reports whether the selected option was right.
	Correct bool

	// CorrectAnswer is the label of the right option, returned whether or
	// not the submission matched it.
	CorrectAnswer string

	// QuestionNumber and TotalQuestions locate the graded question.
	QuestionNumber int
	TotalQuestions int

	// Score is the running count of correct answers.
	Score int

	// Accuracy is the running percentage of correct answers, 0-100.
	Accuracy float64

	// SessionComplete is set when the graded question was the last one.
	// Authoritative: callers stop the fetch loop on it.
	SessionComplete bool

	// Final holds the end-of-session totals. Non-nil only when
	// SessionComplete is set and the server attached them.
	Final *FinalResults
}

// FinalResults are the totals the server reports when a session ends.
type FinalResults struct {
	TotalQuestions   int
	CorrectAnswers   int
	IncorrectAnswers int

	// Accuracy is the percentage of correct answers, 0-100.
	Accuracy float64

	// TimeTakenSeconds is the wall-clock duration of the session.
	TimeTakenSeconds float64
}
