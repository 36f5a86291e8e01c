package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-standing-api/internal/dto"
	"github.com/noah-isme/sma-standing-api/pkg/jobs"
)

const refreshJobType = "standing.refresh"

// refresh job outcomes, used as metric labels
const (
	refreshSuccess = "success"
	refreshFailure = "failure"
	refreshStale   = "stale"
)

type standingComputer interface {
	Compute(ctx context.Context, studentID, termID string) (*dto.StandingResponse, error)
}

type refreshRequest struct {
	StudentID string
	TermID    string
}

// StandingRefresherConfig tunes the background worker pool.
type StandingRefresherConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
}

// StandingRefresher recomputes a student's summary after a write so the next
// read is served warm from cache.
type StandingRefresher struct {
	computer standingComputer
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	queue    *jobs.Queue
	ttl      time.Duration
}

// NewStandingRefresher builds a refresher; call Start before scheduling.
func NewStandingRefresher(computer standingComputer, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg StandingRefresherConfig) *StandingRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &StandingRefresher{
		computer: computer,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		ttl:      cfg.CacheTTL,
	}
	r.queue = jobs.NewQueue("standing-refresh", r.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return r
}

// Start launches the workers.
func (r *StandingRefresher) Start(ctx context.Context) {
	r.queue.Start(ctx)
}

// Stop cancels pending refreshes and waits for the workers to exit.
func (r *StandingRefresher) Stop() {
	r.queue.Stop()
}

// Schedule queues a refresh. Refreshes for the same student and term collapse
// while one is pending. Nothing is queued when caching is off.
func (r *StandingRefresher) Schedule(studentID, termID string) {
	if !r.cache.Enabled() {
		return
	}
	err := r.queue.Enqueue(jobs.Job{
		Key:     StandingSummaryKey(studentID, termID),
		Type:    refreshJobType,
		Payload: refreshRequest{StudentID: studentID, TermID: termID},
	})
	if err != nil && !errors.Is(err, jobs.ErrDuplicate) {
		r.logger.Warn("standing refresh not scheduled",
			zap.String("student_id", studentID), zap.String("term_id", termID), zap.Error(err))
	}
}

func (r *StandingRefresher) handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(refreshRequest)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	gen := r.cache.Generation()
	summary, err := r.computer.Compute(ctx, req.StudentID, req.TermID)
	if err != nil {
		r.metrics.RecordRefreshJob(refreshFailure)
		return err
	}
	stored, err := r.cache.SetIfCurrent(ctx, job.Key, summary, r.ttl, gen)
	switch {
	case err != nil:
		r.metrics.RecordRefreshJob(refreshFailure)
		return err
	case !stored:
		// a write landed mid-run; the refresh it scheduled will store fresh data
		r.metrics.RecordRefreshJob(refreshStale)
	default:
		r.metrics.RecordRefreshJob(refreshSuccess)
	}
	return nil
}
