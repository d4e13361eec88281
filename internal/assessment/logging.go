package assessment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// LoggingService is a decorator that records every operation on a zap
// logger without altering results.
type LoggingService struct {
	inner Service
	log   *zap.Logger
}

// WithLogging wraps a Service with operation logging.
func WithLogging(s Service, log *zap.Logger) Service {
	return &LoggingService{inner: s, log: log}
}

func (l *LoggingService) Start(ctx context.Context, in StartInput) (*Session, error) {
	start := time.Now()
	sess, err := l.inner.Start(ctx, in)
	fields := []zap.Field{
		zap.String("student", in.StudentName),
		zap.String("subject", in.Subject),
		zap.String("chapter", in.Chapter),
		zap.Int("question_count", in.QuestionCount),
	}
	if sess != nil {
		fields = append(fields, zap.String("session_id", sess.ID))
	}
	l.observe("start_assessment", start, err, fields)
	return sess, err
}

func (l *LoggingService) NextQuestion(ctx context.Context, sessionID string) (*Question, error) {
	start := time.Now()
	q, err := l.inner.NextQuestion(ctx, sessionID)
	fields := []zap.Field{zap.String("session_id", sessionID)}
	if q != nil {
		fields = append(fields, zap.Int("question_number", q.Number))
	}
	l.observe("get_question", start, err, fields)
	return q, err
}

func (l *LoggingService) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	start := time.Now()
	res, err := l.inner.SubmitAnswer(ctx, sub)
	fields := []zap.Field{
		zap.String("session_id", sub.SessionID),
		zap.String("question_id", sub.QuestionID),
	}
	if res != nil {
		fields = append(fields,
			zap.Bool("correct", res.Correct),
			zap.Bool("session_complete", res.SessionComplete),
		)
	}
	l.observe("submit_answer", start, err, fields)
	return res, err
}

func (l *LoggingService) Health(ctx context.Context) bool {
	start := time.Now()
	ok := l.inner.Health(ctx)
	l.log.Debug("health",
		zap.Bool("healthy", ok),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ok
}

// observe logs one finished operation. Completion signals log at debug
// like successes; they are the expected end of a session.
func (l *LoggingService) observe(op string, start time.Time, err error, fields []zap.Field) {
	fields = append(fields, zap.Duration("elapsed", time.Since(start)))
	if err != nil && !errors.Is(err, ErrSessionComplete) {
		fields = append(fields, zap.Error(err))
		l.log.Warn(op+" failed", fields...)
		return
	}
	if errors.Is(err, ErrSessionComplete) {
		fields = append(fields, zap.Bool("session_complete", true))
	}
	l.log.Debug(op, fields...)
}
