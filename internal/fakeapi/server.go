package fakeapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// session tracks one in-flight assessment attempt.
type session struct {
	id        string
	studentID int64
	userID    int64
	subject   string
	chapter   string
	questions []Item
	cursor    int
	correct   int
	started   time.Time
	complete  bool
}

// Server is an in-memory assessment backend speaking the documented wire
// contract. It backs integration tests and the local practice command;
// state lives for the life of the process.
type Server struct {
	mu            sync.Mutex
	bank          []Item
	sessions      map[string]*session
	nextStudentID int64
	now           func() time.Time
}

// NewServer builds a Server over the embedded question bank.
func NewServer() (*Server, error) {
	bank, err := loadBank()
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return &Server{
		bank:          bank,
		sessions:      make(map[string]*session),
		nextStudentID: 1,
		now:           time.Now,
	}, nil
}

// Routes registers all HTTP routes.
func (s *Server) Routes(r chi.Router) {
	r.Post("/start-assessment/", s.handleStart)
	r.Get("/get-assessment-question/", s.handleQuestion)
	r.Post("/submit-assessment-answer/", s.handleSubmit)
	r.Get("/health/", s.handleHealth)
}

type errorReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type startReply struct {
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

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentName   string `json:"student_name"`
		Subject       string `json:"subject"`
		Chapter       string `json:"chapter"`
		QuestionCount int    `json:"question_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "invalid JSON body"})
		return
	}
	if req.StudentName == "" || req.Subject == "" || req.Chapter == "" {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "student_name, subject and chapter are required"})
		return
	}
	if req.QuestionCount < 1 {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "question_count must be at least 1"})
		return
	}

	questions := s.drawQuestions(req.Subject, req.Chapter, req.QuestionCount)
	if questions == nil {
		writeJSON(w, http.StatusNotFound, errorReply{
			Message: fmt.Sprintf("no questions available for %s/%s", req.Subject, req.Chapter),
		})
		return
	}

	s.mu.Lock()
	sess := &session{
		id:        uuid.NewString(),
		studentID: s.nextStudentID,
		userID:    1000 + s.nextStudentID,
		subject:   req.Subject,
		chapter:   req.Chapter,
		questions: questions,
		started:   s.now(),
	}
	s.nextStudentID++
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, startReply{
		Success:       true,
		Message:       "Assessment session started",
		SessionID:     sess.id,
		StudentID:     sess.studentID,
		UserID:        sess.userID,
		Subject:       sess.subject,
		Chapter:       sess.chapter,
		QuestionCount: len(sess.questions),
		SessionType:   "assessment",
	})
}

// drawQuestions picks n questions for subject/chapter, cycling through
// the pool when it is smaller than n. Returns nil when nothing matches.
func (s *Server) drawQuestions(subject, chapter string, n int) []Item {
	var pool []Item
	for _, item := range s.bank {
		if item.Subject == subject && item.Chapter == chapter {
			pool = append(pool, item)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	out := make([]Item, 0, n)
	for i := range n {
		out = append(out, pool[i%len(pool)])
	}
	return out
}

type questionReply struct {
	Success  bool         `json:"success"`
	Question questionBody `json:"question"`
	Progress progressBody `json:"session_progress"`
}

type questionBody struct {
	QuestionID       string            `json:"question_id"`
	QuestionNumber   int               `json:"question_number"`
	QuestionText     string            `json:"question_text"`
	Options          map[string]string `json:"options"`
	Difficulty       string            `json:"difficulty"`
	Chapter          string            `json:"chapter"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
	AssessmentInfo   assessmentInfo    `json:"assessment_info"`
}

type assessmentInfo struct {
	SessionType        string `json:"session_type"`
	QuestionsRemaining int    `json:"questions_remaining"`
}

type progressBody struct {
	CurrentQuestion    int     `json:"current_question"`
	TotalQuestions     int     `json:"total_questions"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

type completeReply struct {
	Success         bool   `json:"success"`
	SessionComplete bool   `json:"session_complete"`
	Message         string `json:"message"`
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("session_id")
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "session_id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sid]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorReply{Message: "session not found"})
		return
	}

	// A finished session answers every further fetch with the completion
	// payload, with HTTP 200: running out of questions is not a failure.
	if sess.complete || sess.cursor >= len(sess.questions) {
		writeJSON(w, http.StatusOK, completeReply{
			SessionComplete: true,
			Message:         "Assessment session is complete",
		})
		return
	}

	item := sess.questions[sess.cursor]
	number := sess.cursor + 1
	total := len(sess.questions)

	writeJSON(w, http.StatusOK, questionReply{
		Success: true,
		Question: questionBody{
			QuestionID:       item.ID,
			QuestionNumber:   number,
			QuestionText:     item.Text,
			Options:          item.Options,
			Difficulty:       item.Difficulty,
			Chapter:          item.Chapter,
			TimeLimitSeconds: item.TimeLimitSeconds,
			AssessmentInfo: assessmentInfo{
				SessionType:        "assessment",
				QuestionsRemaining: total - number,
			},
		},
		Progress: progressBody{
			CurrentQuestion:    number,
			TotalQuestions:     total,
			ProgressPercentage: round1(float64(number) / float64(total) * 100),
		},
	})
}

type submitReply struct {
	Success         bool       `json:"success"`
	IsCorrect       bool       `json:"is_correct"`
	CorrectAnswer   string     `json:"correct_answer"`
	QuestionNumber  int        `json:"question_number"`
	TotalQuestions  int        `json:"total_questions"`
	CurrentScore    int        `json:"current_score"`
	Accuracy        float64    `json:"accuracy"`
	SessionComplete bool       `json:"session_complete"`
	FinalResults    *finalBody `json:"final_results,omitempty"`
}

type finalBody struct {
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Accuracy         float64 `json:"accuracy"`
	TimeTakenSeconds float64 `json:"time_taken_seconds"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID      string  `json:"session_id"`
		QuestionID     string  `json:"question_id"`
		SelectedAnswer string  `json:"selected_answer"`
		TimeSpent      float64 `json:"time_spent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "invalid JSON body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[req.SessionID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorReply{Message: "session not found"})
		return
	}
	if sess.complete || sess.cursor >= len(sess.questions) {
		writeJSON(w, http.StatusOK, errorReply{Message: "Assessment session is complete"})
		return
	}

	item := sess.questions[sess.cursor]
	if req.QuestionID != item.ID {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "question_id does not match the current question"})
		return
	}

	correct := req.SelectedAnswer == item.Answer
	sess.cursor++
	if correct {
		sess.correct++
	}

	total := len(sess.questions)
	reply := submitReply{
		Success:         true,
		IsCorrect:       correct,
		CorrectAnswer:   item.Answer,
		QuestionNumber:  sess.cursor,
		TotalQuestions:  total,
		CurrentScore:    sess.correct,
		Accuracy:        round1(float64(sess.correct) / float64(sess.cursor) * 100),
		SessionComplete: sess.cursor >= total,
	}

	if reply.SessionComplete {
		sess.complete = true
		reply.FinalResults = &finalBody{
			TotalQuestions:   total,
			CorrectAnswers:   sess.correct,
			IncorrectAnswers: total - sess.correct,
			Accuracy:         round1(float64(sess.correct) / float64(total) * 100),
			TimeTakenSeconds: round1(s.now().Sub(sess.started).Seconds()),
		}
	}

	writeJSON(w, http.StatusOK, reply)
}

type healthReply struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthReply{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
