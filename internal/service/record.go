package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/session"
	"github.com/asukabase7/ip-skill-quiz/internal/worker"
)

// RecordBackend is anything that can persist one answer outcome.
// Both the HTTP client and QuizService satisfy it.
type RecordBackend interface {
	Record(ctx context.Context, questionID int64, correct bool) error
}

// RecordService turns a RecordBackend into the fire-and-forget recorder the
// session engine expects: RecordOutcome enqueues the call on a bounded worker
// pool and returns immediately. A failed or slow backend is logged and
// otherwise invisible — never surfaced, never retried. When the backend
// hangs long enough to fill the queue, further outcomes are dropped rather
// than making the caller wait.
type RecordService struct {
	backend RecordBackend
	pool    *worker.Pool[error]
	logger  *slog.Logger
	done    chan struct{}
}

// Compile-time check: *RecordService is a session recorder.
var _ session.Recorder = (*RecordService)(nil)

const recordTimeout = 10 * time.Second

// NewRecordService starts the pool and its failure-logging drain.
func NewRecordService(backend RecordBackend, logger *slog.Logger) *RecordService {
	rs := &RecordService{
		backend: backend,
		pool:    worker.NewPool[error](2, 16),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go rs.drain()
	return rs
}

// RecordOutcome submits one outcome for background recording. It never
// blocks: if the queue is full the outcome is dropped with a warning.
//
// The job uses a fresh context because recording runs asynchronously and
// must not be cancelled when whatever triggered it finishes first.
func (rs *RecordService) RecordOutcome(questionID int64, correct bool) {
	accepted := rs.pool.TrySubmit(questionID, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return rs.backend.Record(ctx, questionID, correct)
	})
	if !accepted {
		rs.logger.Warn("record queue full, dropping answer outcome", "question_id", questionID)
	}
}

// drain consumes job results so the pool never backs up, logging failures.
func (rs *RecordService) drain() {
	defer close(rs.done)
	for result := range rs.pool.Results() {
		if result.Output != nil {
			rs.logger.Warn("failed to record answer outcome",
				"question_id", result.JobID,
				"error", result.Output,
			)
		}
	}
}

// Close waits for in-flight recordings to finish. Their outcome still goes
// unreported; Close only bounds shutdown.
func (rs *RecordService) Close() {
	rs.pool.Close()
	<-rs.done
}
