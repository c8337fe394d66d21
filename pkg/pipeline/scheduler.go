package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/db/models"
	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/quatton/vitalsync/pkg/whoop"
)

const (
	DefaultWindow         = 7 * 24 * time.Hour
	DefaultInterUserDelay = time.Second
	DefaultLockTTL        = time.Hour

	BatchLockKey = "locks/sync-batch"
)

var ErrBatchRunning = errors.New("a sync batch is already running")

type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateFatalError State = "fatal_error"
)

// UserResult is the outcome of syncing one user.
type UserResult struct {
	UserID          string    `json:"userId"`
	Success         bool      `json:"success"`
	RecordsInserted int       `json:"recordsInserted"`
	RecordsUpdated  int       `json:"recordsUpdated"`
	FailedStreams   []Stream  `json:"failedStreams,omitempty"`
	Error           string    `json:"error,omitempty"`
	ErrorCode       qerr.Code `json:"errorCode,omitempty"`
}

func (r *UserResult) TotalProcessed() int {
	return r.RecordsInserted + r.RecordsUpdated
}

type BatchSummary struct {
	RunID                string       `json:"runId"`
	TotalUsers           int          `json:"totalUsers"`
	SuccessCount         int          `json:"successCount"`
	FailureCount         int          `json:"failureCount"`
	TotalRecordsInserted int          `json:"totalRecordsInserted"`
	TotalRecordsUpdated  int          `json:"totalRecordsUpdated"`
	DurationMs           int64        `json:"durationMs"`
	Results              []UserResult `json:"results"`
}

func (s *BatchSummary) add(r UserResult) {
	s.Results = append(s.Results, r)
	if r.Success {
		s.SuccessCount++
	} else {
		s.FailureCount++
	}
	s.TotalRecordsInserted += r.RecordsInserted
	s.TotalRecordsUpdated += r.RecordsUpdated
}

// Status is a snapshot of the scheduler for the status endpoint.
type Status struct {
	State      State         `json:"state"`
	StartedAt  *time.Time    `json:"startedAt,omitempty"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	LastError  string        `json:"lastError,omitempty"`
	Last       *BatchSummary `json:"last,omitempty"`
}

// TokenSource yields a usable access token for a user.
type TokenSource interface {
	RefreshIfNeeded(ctx context.Context, userID string, rec *credentials.TokenRecord) (string, error)
}

type StreamFetcher interface {
	FetchAll(ctx context.Context, accessToken string, w whoop.Window) *Streams
}

type RecordWriter interface {
	Upsert(ctx context.Context, rec *models.CycleRecord) (db.Outcome, error)
}

// Archiver keeps a copy of the raw streams of a run.
type Archiver interface {
	Put(ctx context.Context, userID, runID string, payloads map[string]any) error
}

type SchedulerConfig struct {
	Provider string
	Store    credentials.Store
	Tokens   TokenSource
	Fetcher  StreamFetcher
	Writer   RecordWriter
	Archive  Archiver
	Locks    kv.Store
	Logger   *qlog.Logger

	Window         time.Duration
	InterUserDelay time.Duration
	LockTTL        time.Duration
	Now            func() time.Time
	Sleep          func(ctx context.Context, d time.Duration) error
}

// Scheduler drives the per-user pipeline: credentials, refresh, fetch,
// merge, upsert. Users in a batch run one after another.
type Scheduler struct {
	cfg SchedulerConfig
	log *qlog.Logger

	mu     sync.Mutex
	status Status
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Provider == "" {
		cfg.Provider = whoop.Provider
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.InterUserDelay < 0 {
		cfg.InterUserDelay = 0
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.Logger == nil {
		cfg.Logger = qlog.NewDiscard()
	}
	return &Scheduler{cfg: cfg, log: cfg.Logger, status: Status{State: StateIdle}}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.State
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// BatchWindow is the range a batch syncs: the configured window ending now.
func (s *Scheduler) BatchWindow() whoop.Window {
	now := s.cfg.Now()
	return whoop.Window{Start: now.Add(-s.cfg.Window), End: now}
}

// RunBatch syncs every user in the directory. A failing user is recorded in
// the summary and the batch moves on; only a directory failure, a
// cancelled context or a held lock end the batch early.
func (s *Scheduler) RunBatch(ctx context.Context) (*BatchSummary, error) {
	if s.cfg.Locks != nil {
		lock, err := kv.Acquire(ctx, s.cfg.Locks, BatchLockKey, s.cfg.LockTTL)
		if errors.Is(err, kv.ErrLocked) {
			return nil, ErrBatchRunning
		}
		if err != nil {
			return nil, fmt.Errorf("acquire batch lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release batch lock", "error", err)
			}
		}()
	}

	started := s.cfg.Now()
	if !s.begin(started) {
		return nil, ErrBatchRunning
	}

	summary := &BatchSummary{RunID: uuid.NewString(), Results: []UserResult{}}
	log := s.log.With("run", summary.RunID)
	finish := func(err error) (*BatchSummary, error) {
		summary.DurationMs = s.cfg.Now().Sub(started).Milliseconds()
		s.end(summary, err)
		if err != nil {
			log.Error("sync batch failed", "error", err, "processed", len(summary.Results))
			return summary, err
		}
		log.Info("sync batch completed",
			"users", summary.TotalUsers,
			"succeeded", summary.SuccessCount,
			"failed", summary.FailureCount,
			"inserted", summary.TotalRecordsInserted,
			"updated", summary.TotalRecordsUpdated,
			"duration_ms", summary.DurationMs,
		)
		return summary, nil
	}

	userIDs, err := credentials.CollectUserIDs(s.cfg.Store.ListUserIDs(ctx))
	if err != nil {
		return finish(qerr.New(qerr.CodeDirectoryFailed, err))
	}
	summary.TotalUsers = len(userIDs)
	if len(userIDs) == 0 {
		log.Info("no users to sync")
		return finish(nil)
	}

	w := s.BatchWindow()
	for i, userID := range userIDs {
		if i > 0 && s.cfg.InterUserDelay > 0 {
			if err := s.cfg.Sleep(ctx, s.cfg.InterUserDelay); err != nil {
				return finish(err)
			}
		}
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		res, _ := s.syncUser(ctx, summary.RunID, userID, w)
		summary.add(*res)
	}
	return finish(nil)
}

// SyncUser runs the pipeline for one user over w. The result is always
// non-nil; the error is set when the user failed.
func (s *Scheduler) SyncUser(ctx context.Context, userID string, w whoop.Window) (*UserResult, error) {
	return s.syncUser(ctx, uuid.NewString(), userID, w)
}

// Backfill satisfies the exchanger's backfill hook.
func (s *Scheduler) Backfill(ctx context.Context, userID string, w whoop.Window) error {
	_, err := s.SyncUser(ctx, userID, w)
	return err
}

func (s *Scheduler) syncUser(ctx context.Context, runID, userID string, w whoop.Window) (*UserResult, error) {
	res := &UserResult{UserID: userID}
	log := s.log.With("run", runID, "user", userID)
	fail := func(err error) (*UserResult, error) {
		res.Success = false
		res.Error = err.Error()
		res.ErrorCode = qerr.CodeOf(err)
		log.Warn("user sync failed", "code", string(res.ErrorCode), "error", err)
		return res, err
	}

	rec, err := s.cfg.Store.Get(ctx, userID)
	if qerr.IsCode(err, qerr.CodeNotFound) {
		return fail(qerr.Newf(qerr.CodeNoTokens, "no stored tokens for user %s", userID))
	}
	if err != nil {
		return fail(err)
	}

	accessToken, err := s.cfg.Tokens.RefreshIfNeeded(ctx, userID, rec)
	if err != nil {
		return fail(err)
	}

	streams := s.cfg.Fetcher.FetchAll(ctx, accessToken, w)
	for _, st := range []Stream{StreamCycles, StreamRecoveries, StreamSleeps, StreamWorkouts} {
		if !streams.Ok(st) {
			res.FailedStreams = append(res.FailedStreams, st)
		}
	}
	if len(res.FailedStreams) == 4 {
		return fail(qerr.New(qerr.CodeFetchFailed, errors.Join(
			streams.Failed[StreamCycles], streams.Failed[StreamRecoveries],
			streams.Failed[StreamSleeps], streams.Failed[StreamWorkouts],
		)))
	}
	s.archive(ctx, log, userID, runID, streams)

	records := Merge(s.cfg.Provider, userID, streams)
	for i := range records {
		outcome, err := s.cfg.Writer.Upsert(ctx, &records[i])
		if err != nil {
			return fail(err)
		}
		switch outcome {
		case db.Inserted:
			res.RecordsInserted++
		case db.Updated:
			res.RecordsUpdated++
		}
	}

	res.Success = true
	log.Info("user synced",
		"inserted", res.RecordsInserted,
		"updated", res.RecordsUpdated,
		"cycles", len(streams.Cycles),
		"failed_streams", len(res.FailedStreams),
	)
	return res, nil
}

func (s *Scheduler) archive(ctx context.Context, log *qlog.Logger, userID, runID string, streams *Streams) {
	if s.cfg.Archive == nil {
		return
	}
	payloads := make(map[string]any, 4)
	if streams.Ok(StreamCycles) {
		payloads[string(StreamCycles)] = streams.Cycles
	}
	if streams.Ok(StreamRecoveries) {
		payloads[string(StreamRecoveries)] = streams.Recoveries
	}
	if streams.Ok(StreamSleeps) {
		payloads[string(StreamSleeps)] = streams.Sleeps
	}
	if streams.Ok(StreamWorkouts) {
		payloads[string(StreamWorkouts)] = streams.Workouts
	}
	if err := s.cfg.Archive.Put(ctx, userID, runID, payloads); err != nil {
		log.Warn("failed to archive raw streams", "error", err)
	}
}

func (s *Scheduler) begin(at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State == StateRunning {
		return false
	}
	s.status.State = StateRunning
	s.status.StartedAt = &at
	s.status.FinishedAt = nil
	s.status.LastError = ""
	return true
}

func (s *Scheduler) end(summary *BatchSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.cfg.Now()
	s.status.FinishedAt = &at
	s.status.Last = summary
	if err != nil {
		s.status.State = StateFatalError
		s.status.LastError = err.Error()
		return
	}
	s.status.State = StateCompleted
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
