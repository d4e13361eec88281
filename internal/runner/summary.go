package runner

import (
	"fmt"
	"time"

	"github.com/abhisek/aptiz/internal/assessment"
)

// Summary holds the data displayed when an assessment ends.
type Summary struct {
	Session  *assessment.Session
	Outcomes []Outcome

	Correct int
	Total   int

	// Accuracy is the locally computed percentage of correct answers,
	// 0-100. The server's own totals, when it sent them, sit in Final.
	Accuracy float64

	Duration time.Duration
	Final    *assessment.FinalResults
}

// Lines renders the summary as display lines.
func (s *Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("Chapter: %s (%s)", s.Session.Chapter, s.Session.Subject),
		fmt.Sprintf("Questions: %d", s.Total),
		fmt.Sprintf("Correct: %d (%.0f%%)", s.Correct, s.Accuracy),
		fmt.Sprintf("Time: %s", s.Duration.Round(time.Second)),
	}
	if s.Final != nil {
		lines = append(lines, fmt.Sprintf("Server score: %d/%d (%.0f%%)",
			s.Final.CorrectAnswers, s.Final.TotalQuestions, s.Final.Accuracy))
	}
	return lines
}
