package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/db/models"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/qlog"
)

const (
	DefaultUpsertAttempts = 3
	upsertInitialInterval = time.Second
	upsertMaxInterval     = 4 * time.Second
)

// Repository persists canonical records.
type Repository interface {
	Upsert(ctx context.Context, rec *models.CycleRecord) (db.Outcome, error)
}

// Writer retries transient repository failures before giving up on a record.
// The default three attempts wait exactly twice, 1s then 2s. Longer retry
// budgets set with WithAttempts keep doubling up to 4s between attempts.
type Writer struct {
	repo     Repository
	logger   *qlog.Logger
	attempts int
	timer    backoff.Timer
}

type WriterOption func(*Writer)

func WithAttempts(n int) WriterOption {
	return func(w *Writer) { w.attempts = n }
}

// WithTimer replaces the wait between attempts. Tests pass a timer that
// fires immediately.
func WithTimer(t backoff.Timer) WriterOption {
	return func(w *Writer) { w.timer = t }
}

func NewWriter(repo Repository, logger *qlog.Logger, opts ...WriterOption) *Writer {
	w := &Writer{repo: repo, logger: logger, attempts: DefaultUpsertAttempts}
	if w.logger == nil {
		w.logger = qlog.NewDiscard()
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(upsertInitialInterval),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(upsertMaxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	retries := w.attempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Upsert writes rec, retrying on failure. Exhausted retries return a
// qerr.CodeUpsertFailed error; a cancelled context stops retrying at once.
func (w *Writer) Upsert(ctx context.Context, rec *models.CycleRecord) (db.Outcome, error) {
	var outcome db.Outcome
	attempt := 0
	op := func() error {
		attempt++
		out, err := w.repo.Upsert(ctx, rec)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return err
		}
		outcome = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		w.logger.Warn("upsert failed, retrying", "record", rec.ID, "attempt", attempt, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotifyWithTimer(op, w.policy(ctx), notify, w.timer); err != nil {
		return 0, qerr.New(qerr.CodeUpsertFailed, fmt.Errorf("upsert %s after %d attempts: %w", rec.ID, attempt, err))
	}
	return outcome, nil
}
