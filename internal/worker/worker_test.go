package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/internal/domain"
)

type countingInvoiceService struct {
	domain.InvoiceService

	mu    sync.Mutex
	calls int
}

func (s *countingInvoiceService) MarkInvoicesOverdue(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 2, nil
}

func (s *countingInvoiceService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type countingSessionStore struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	return nil
}

func (s *countingSessionStore) GetSession(ctx context.Context, token, scope string) (*domain.Session, error) {
	return nil, domain.ErrSessionExpired
}

func (s *countingSessionStore) DeleteSession(ctx context.Context, token, scope string) error {
	return nil
}

func (s *countingSessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 1, nil
}

func (s *countingSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestWorker_RunsSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	invoices := &countingInvoiceService{}
	sessions := &countingSessionStore{}

	w := NewWorker(invoices, sessions, Config{
		OverdueInterval:        time.Hour,
		SessionCleanupInterval: time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	// Initial sweeps should run without waiting for the first tick
	require.Eventually(t, func() bool {
		return invoices.count() == 1 && sessions.count() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&countingInvoiceService{}, &countingSessionStore{}, Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotEmpty(t, w.config.WorkerID)
	assert.Equal(t, time.Hour, w.config.OverdueInterval)
	assert.Equal(t, 6*time.Hour, w.config.SessionCleanupInterval)
}
