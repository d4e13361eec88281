package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Service. One Client serves any
// number of sessions; it holds no per-session state. Each operation is a
// single request with no retries; wrap with WithRetry to opt in.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for custom
// transports and test doubles.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client.Timeout = d }
}

// NewClient creates a Client for the assessment service rooted at
// baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type startRequest struct {
	StudentName   string `json:"student_name"`
	Subject       string `json:"subject"`
	Chapter       string `json:"chapter"`
	QuestionCount int    `json:"question_count"`
}

type startResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	SessionID     string `json:"session_id"`
	StudentID     int64  `json:"student_id"`
	UserID        int64  `json:"user_id"`
	Subject       string `json:"subject"`
	Chapter       string `json:"chapter"`
	QuestionCount int    `json:"question_count"`
	SessionType   string `json:"session_type"`
}

func (c *Client) Start(ctx context.Context, in StartInput) (*Session, error) {
	body, err := json.Marshal(startRequest{
		StudentName:   in.StudentName,
		Subject:       in.Subject,
		Chapter:       in.Chapter,
		QuestionCount: in.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("encode start request: %w", err)
	}

	data, err := c.post(ctx, "/start-assessment/", body)
	if err != nil {
		return nil, err
	}

	var resp startResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode start response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("start assessment: %s", serverMessage(resp.Message))
	}

	return &Session{
		ID:            resp.SessionID,
		StudentID:     resp.StudentID,
		UserID:        resp.UserID,
		Subject:       resp.Subject,
		Chapter:       resp.Chapter,
		QuestionCount: resp.QuestionCount,
		Type:          resp.SessionType,
		Message:       resp.Message,
	}, nil
}

type questionResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	SessionComplete bool             `json:"session_complete"`
	Question        *questionPayload `json:"question"`
	Progress        *progressPayload `json:"session_progress"`
}

type questionPayload struct {
	ID               string            `json:"question_id"`
	Number           int               `json:"question_number"`
	Text             string            `json:"question_text"`
	Options          map[string]string `json:"options"`
	Difficulty       string            `json:"difficulty"`
	Chapter          string            `json:"chapter"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
	AssessmentInfo   json.RawMessage   `json:"assessment_info"`
}

type progressPayload struct {
	Current int     `json:"current_question"`
	Total   int     `json:"total_questions"`
	Percent float64 `json:"progress_percentage"`
}

// completionPattern matches "complete", "completed" and the like at a
// word start, so a message such as "submission incomplete" does not count.
var completionPattern = regexp.MustCompile(`(?i)\bcomplete`)

// sessionDone reports whether a not-successful payload means the session
// ran out of questions. The explicit flag is preferred; the anchored
// message match covers servers that only phrase it in prose.
func (r *questionResponse) sessionDone() bool {
	if r.SessionComplete {
		return true
	}
	return completionPattern.MatchString(r.Message)
}

func (c *Client) NextQuestion(ctx context.Context, sessionID string) (*Question, error) {
	query := url.Values{"session_id": {sessionID}}
	data, err := c.get(ctx, "/get-assessment-question/", query)
	if err != nil {
		return nil, err
	}

	var resp questionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode question response: %w", err)
	}
	if !resp.Success {
		// Completion is checked before generic failure: a completed
		// session answers with success=false plus a completion marker.
		if resp.sessionDone() {
			return nil, &SessionCompleteError{Message: resp.Message}
		}
		return nil, fmt.Errorf("get question: %s", serverMessage(resp.Message))
	}
	if resp.Question == nil {
		return nil, fmt.Errorf("get question: response has no question object")
	}

	q := &Question{
		ID:               resp.Question.ID,
		Number:           resp.Question.Number,
		Text:             resp.Question.Text,
		Options:          resp.Question.Options,
		Difficulty:       resp.Question.Difficulty,
		Chapter:          resp.Question.Chapter,
		TimeLimitSeconds: resp.Question.TimeLimitSeconds,
		AssessmentInfo:   resp.Question.AssessmentInfo,
	}
	if resp.Progress != nil {
		q.Progress = Progress{
			Current: resp.Progress.Current,
			Total:   resp.Progress.Total,
			Percent: resp.Progress.Percent,
		}
	}
	return q, nil
}

type submitRequest struct {
	SessionID      string  `json:"session_id"`
	QuestionID     string  `json:"question_id"`
	SelectedAnswer string  `json:"selected_answer"`
	TimeSpent      float64 `json:"time_spent"`
}

type submitResponse struct {
	Success         bool          `json:"success"`
	Message         string        `json:"message"`
	IsCorrect       bool          `json:"is_correct"`
	CorrectAnswer   string        `json:"correct_answer"`
	QuestionNumber  int           `json:"question_number"`
	TotalQuestions  int           `json:"total_questions"`
	CurrentScore    int           `json:"current_score"`
	Accuracy        float64       `json:"accuracy"`
	SessionComplete bool          `json:"session_complete"`
	FinalResults    *finalPayload `json:"final_results"`
}

type finalPayload struct {
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         float64 `json:"accuracy"`
	TimeTakenSeconds float64 `json:"time_taken_seconds"`
}

func (c *Client) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	body, err := json.Marshal(submitRequest{
		SessionID:      sub.SessionID,
		QuestionID:     sub.QuestionID,
		SelectedAnswer: sub.Selected,
		TimeSpent:      sub.TimeSpent,
	})
	if err != nil {
		return nil, fmt.Errorf("encode submit request: %w", err)
	}

	data, err := c.post(ctx, "/submit-assessment-answer/", body)
	if err != nil {
		return nil, err
	}

	var resp submitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode submit response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("submit answer: %s", serverMessage(resp.Message))
	}

	result := &AnswerResult{
		Correct:         resp.IsCorrect,
		CorrectAnswer:   resp.CorrectAnswer,
		QuestionNumber:  resp.QuestionNumber,
		TotalQuestions:  resp.TotalQuestions,
		Score:           resp.CurrentScore,
		Accuracy:        resp.Accuracy,
		SessionComplete: resp.SessionComplete,
	}
	if resp.FinalResults != nil {
		result.Final = &FinalResults{
			TotalQuestions:   resp.FinalResults.TotalQuestions,
			CorrectAnswers:   resp.FinalResults.CorrectAnswers,
			IncorrectAnswers: resp.FinalResults.IncorrectAnswers,
			Accuracy:         resp.FinalResults.Accuracy,
			TimeTakenSeconds: resp.FinalResults.TimeTakenSeconds,
		}
	}
	return result, nil
}

func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// do sends the request and classifies the outcome: network failures and
// non-2xx statuses become TransportError, 2xx bodies come back raw.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

func serverMessage(msg string) string {
	if msg == "" {
		return "server reported failure"
	}
	return msg
}
