package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erazemk/arsenal/internal/model"
)

type fakeReconciler struct {
	calls atomic.Int32
	drift []model.Drift
	err   error
}

func (f *fakeReconciler) Reconcile(ctx context.Context) ([]model.Drift, error) {
	f.calls.Add(1)
	return f.drift, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	r := &fakeReconciler{drift: []model.Drift{{AssetID: 1, Recorded: 3, Expected: 4}}}
	s := New(r, "@every 1h", time.Second, quietLogger())

	if got := s.RunOnce(context.Background()); got != 1 {
		t.Errorf("expected 1 drifted asset, got %d", got)
	}

	r.err = errors.New("database is locked")
	if got := s.RunOnce(context.Background()); got != -1 {
		t.Errorf("expected -1 on failure, got %d", got)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(&fakeReconciler{}, "not a schedule", time.Second, quietLogger())
	if err := s.Start(); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestScheduledRun(t *testing.T) {
	r := &fakeReconciler{}
	s := New(r, "@every 1s", time.Second, quietLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("reconciliation never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
