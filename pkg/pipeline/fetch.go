package pipeline

import (
	"context"

	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/quatton/vitalsync/pkg/whoop"
	"golang.org/x/sync/errgroup"
)

// Stream names one of the four per-user collections.
type Stream string

const (
	StreamCycles     Stream = "cycles"
	StreamRecoveries Stream = "recoveries"
	StreamSleeps     Stream = "sleeps"
	StreamWorkouts   Stream = "workouts"
)

// Streams holds one fetch of all four collections. A stream listed in Failed
// is empty because its fetch failed, not because the user has no data.
type Streams struct {
	Cycles     []whoop.Cycle
	Recoveries []whoop.Recovery
	Sleeps     []whoop.Sleep
	Workouts   []whoop.Workout
	Failed     map[Stream]error
}

func (s *Streams) Ok(stream Stream) bool {
	_, failed := s.Failed[stream]
	return !failed
}

// API is the subset of the provider client the fetcher needs.
type API interface {
	ListCycles(ctx context.Context, accessToken string, w whoop.Window) ([]whoop.Cycle, error)
	ListRecoveries(ctx context.Context, accessToken string, w whoop.Window) ([]whoop.Recovery, error)
	ListSleeps(ctx context.Context, accessToken string, w whoop.Window) ([]whoop.Sleep, error)
	ListWorkouts(ctx context.Context, accessToken string, w whoop.Window) ([]whoop.Workout, error)
}

type Fetcher struct {
	api    API
	logger *qlog.Logger
}

func NewFetcher(api API, logger *qlog.Logger) *Fetcher {
	if logger == nil {
		logger = qlog.NewDiscard()
	}
	return &Fetcher{api: api, logger: logger}
}

// FetchAll pulls the four streams concurrently. It never fails as a whole:
// a stream that errors is left empty and recorded in Streams.Failed.
func (f *Fetcher) FetchAll(ctx context.Context, accessToken string, w whoop.Window) *Streams {
	out := &Streams{}
	errs := make([]error, 4)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	g.Go(func() error {
		out.Cycles, errs[0] = f.api.ListCycles(gctx, accessToken, w)
		return nil
	})
	g.Go(func() error {
		out.Recoveries, errs[1] = f.api.ListRecoveries(gctx, accessToken, w)
		return nil
	})
	g.Go(func() error {
		out.Sleeps, errs[2] = f.api.ListSleeps(gctx, accessToken, w)
		return nil
	})
	g.Go(func() error {
		out.Workouts, errs[3] = f.api.ListWorkouts(gctx, accessToken, w)
		return nil
	})
	_ = g.Wait()

	for i, stream := range []Stream{StreamCycles, StreamRecoveries, StreamSleeps, StreamWorkouts} {
		if errs[i] == nil {
			continue
		}
		if out.Failed == nil {
			out.Failed = make(map[Stream]error)
		}
		out.Failed[stream] = errs[i]
		f.logger.Warn("stream fetch failed", "stream", string(stream), "error", errs[i])
	}
	// Partial results from a failed walk are dropped so a stream is either
	// complete or empty.
	if !out.Ok(StreamCycles) {
		out.Cycles = nil
	}
	if !out.Ok(StreamRecoveries) {
		out.Recoveries = nil
	}
	if !out.Ok(StreamSleeps) {
		out.Sleeps = nil
	}
	if !out.Ok(StreamWorkouts) {
		out.Workouts = nil
	}
	return out
}
