// Package worker runs periodic maintenance: flipping sent invoices past
// their due date to overdue and purging expired sessions.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/domain"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// OverdueInterval is how often to scan for overdue invoices
	OverdueInterval time.Duration

	// SessionCleanupInterval is how often to purge expired sessions
	SessionCleanupInterval time.Duration
}

// Worker drives the periodic maintenance loops.
type Worker struct {
	config   Config
	invoices domain.InvoiceService
	sessions domain.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewWorker creates a new maintenance worker.
func NewWorker(invoices domain.InvoiceService, sessions domain.SessionStore, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.OverdueInterval == 0 {
		config.OverdueInterval = time.Hour
	}
	if config.SessionCleanupInterval == 0 {
		config.SessionCleanupInterval = 6 * time.Hour
	}

	return &Worker{
		config:   config,
		invoices: invoices,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the maintenance loops until the context is cancelled.
// Both sweeps run once immediately so a restart never delays them by a
// full interval.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"overdue_interval", w.config.OverdueInterval,
		"session_cleanup_interval", w.config.SessionCleanupInterval,
	)

	overdueTicker := time.NewTicker(w.config.OverdueInterval)
	defer overdueTicker.Stop()

	cleanupTicker := time.NewTicker(w.config.SessionCleanupInterval)
	defer cleanupTicker.Stop()

	w.sweepOverdue(ctx)
	w.sweepSessions(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-overdueTicker.C:
			w.sweepOverdue(ctx)

		case <-cleanupTicker.C:
			w.sweepSessions(ctx)
		}
	}
}

func (w *Worker) sweepOverdue(ctx context.Context) {
	count, err := w.invoices.MarkInvoicesOverdue(ctx)
	if err != nil {
		w.logger.Error("worker: overdue sweep failed", "worker_id", w.config.WorkerID, "error", err)
		return
	}
	if count > 0 {
		w.logger.Info("worker: invoices marked overdue", "worker_id", w.config.WorkerID, "count", count)
	}
}

func (w *Worker) sweepSessions(ctx context.Context) {
	count, err := w.sessions.DeleteExpiredSessions(ctx, w.now())
	if err != nil {
		w.logger.Error("worker: session cleanup failed", "worker_id", w.config.WorkerID, "error", err)
		return
	}
	if count > 0 {
		w.logger.Info("worker: expired sessions removed", "worker_id", w.config.WorkerID, "count", count)
	}
}
