package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/assessment"
	"github.com/abhisek/aptiz/internal/runner"
)

var (
	runStudent string
	runSubject string
	runChapter string
	runCount   int
	runAuto    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Take an assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, log, err := newService(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		answer := promptAnswer(os.Stdin, os.Stdout)
		if runAuto {
			answer = autoAnswer()
		}

		r := runner.New(svc, answer, runner.WithProgress(printOutcome(os.Stdout)))
		summary, err := r.Run(cmd.Context(), assessment.StartInput{
			StudentName:   runStudent,
			Subject:       runSubject,
			Chapter:       runChapter,
			QuestionCount: runCount,
		})
		if err != nil {
			return err
		}

		fmt.Println()
		for _, line := range summary.Lines() {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runStudent, "student", "", "Student name")
	runCmd.Flags().StringVar(&runSubject, "subject", "quantitative_aptitude", "Subject identifier")
	runCmd.Flags().StringVar(&runChapter, "chapter", "percentages", "Chapter identifier")
	runCmd.Flags().IntVar(&runCount, "count", 10, "Number of questions")
	runCmd.Flags().BoolVar(&runAuto, "auto", false, "Answer randomly instead of prompting")
	_ = runCmd.MarkFlagRequired("student")
}

// promptAnswer reads option labels from in, re-asking until the label
// exists on the question.
func promptAnswer(in io.Reader, out io.Writer) runner.AnswerFunc {
	scanner := bufio.NewScanner(in)
	return func(_ context.Context, q *assessment.Question) (string, error) {
		labels := slices.Sorted(maps.Keys(q.Options))

		fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", q.Number, q.Progress.Total, q.Text)
		for _, label := range labels {
			fmt.Fprintf(out, "  %s) %s\n", label, q.Options[label])
		}

		for {
			fmt.Fprint(out, "Your answer: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			label := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if _, ok := q.Options[label]; ok {
				return label, nil
			}
			fmt.Fprintf(out, "Pick one of %s.\n", strings.Join(labels, ", "))
		}
	}
}

// autoAnswer picks a random option. Made for demo runs against the
// practice server.
func autoAnswer() runner.AnswerFunc {
	return func(_ context.Context, q *assessment.Question) (string, error) {
		labels := slices.Sorted(maps.Keys(q.Options))
		if len(labels) == 0 {
			return "", fmt.Errorf("question %s has no options", q.ID)
		}
		return labels[rand.IntN(len(labels))], nil
	}
}

// printOutcome reports each graded answer as it lands.
func printOutcome(out io.Writer) func(runner.Outcome) {
	return func(o runner.Outcome) {
		if o.Correct {
			fmt.Fprintln(out, "Correct.")
			return
		}
		fmt.Fprintf(out, "Wrong. The answer was %s.\n", o.CorrectAnswer)
	}
}
