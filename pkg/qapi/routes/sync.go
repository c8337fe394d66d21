package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/vitalsync/pkg/pipeline"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/whoop"
)

const dateOnly = "2006-01-02"

type SyncUserInput struct {
	Body struct {
		UserID    string `json:"userId,omitempty" doc:"WHOOP user id" example:"10129"`
		StartDate string `json:"startDate,omitempty" doc:"Window start, RFC 3339 or YYYY-MM-DD. Defaults to the batch window." example:"2024-01-01"`
		EndDate   string `json:"endDate,omitempty" doc:"Window end, RFC 3339 or YYYY-MM-DD (inclusive day). Defaults to now." example:"2024-01-07"`
	}
}

type SyncUserBody struct {
	Success         bool              `json:"success"`
	RecordsInserted int               `json:"recordsInserted"`
	RecordsUpdated  int               `json:"recordsUpdated"`
	TotalProcessed  int               `json:"totalProcessed"`
	FailedStreams   []pipeline.Stream `json:"failedStreams,omitempty"`
	Error           string            `json:"error,omitempty"`
	ErrorCode       string            `json:"errorCode,omitempty"`
}

type SyncUserOutput struct {
	Status int `json:"-"`
	Body   SyncUserBody
}

type BatchOutput struct {
	Body *pipeline.BatchSummary
}

type BatchStatusOutput struct {
	Body pipeline.Status
}

func RegisterSync(api huma.API, svc services.Syncer) {
	huma.Register(api, huma.Operation{
		OperationID: "sync-user",
		Method:      http.MethodPost,
		Path:        "/api/sync",
		Summary:     "Sync one user",
		Description: "Fetches and upserts one user's cycles for the given window",
		Tags:        []string{TagSync.String()},
		Security:    APIKeyAuth,
	}, func(ctx context.Context, input *SyncUserInput) (*SyncUserOutput, error) {
		if svc == nil {
			return nil, huma.Error503ServiceUnavailable("sync is not configured")
		}

		out := &SyncUserOutput{Status: http.StatusOK}
		if input.Body.UserID == "" {
			out.Status = http.StatusBadRequest
			out.Body.Error = "userId is required"
			return out, nil
		}

		w, err := ParseWindow(svc.BatchWindow(), input.Body.StartDate, input.Body.EndDate)
		if err != nil {
			out.Status = http.StatusBadRequest
			out.Body.Error = err.Error()
			return out, nil
		}

		res, err := svc.SyncUser(ctx, input.Body.UserID, w)
		if res != nil {
			out.Body.RecordsInserted = res.RecordsInserted
			out.Body.RecordsUpdated = res.RecordsUpdated
			out.Body.TotalProcessed = res.TotalProcessed()
			out.Body.FailedStreams = res.FailedStreams
		}
		if err != nil {
			out.Status = syncStatus(err)
			out.Body.Error = err.Error()
			out.Body.ErrorCode = string(qerr.CodeOf(err))
			return out, nil
		}
		out.Body.Success = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sync-batch",
		Method:      http.MethodPost,
		Path:        "/api/sync/batch",
		Summary:     "Sync every user",
		Description: "Runs a batch over all users with stored tokens. Intended for an external cron.",
		Tags:        []string{TagSync.String()},
		Security:    APIKeyAuth,
		Errors:      []int{http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct{}) (*BatchOutput, error) {
		if svc == nil {
			return nil, huma.Error503ServiceUnavailable("sync is not configured")
		}

		summary, err := svc.RunBatch(ctx)
		if errors.Is(err, pipeline.ErrBatchRunning) {
			return nil, huma.Error409Conflict(err.Error())
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("sync batch failed", err)
		}
		return &BatchOutput{Body: summary}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sync-batch-status",
		Method:      http.MethodGet,
		Path:        "/api/sync/batch/status",
		Summary:     "Batch status",
		Tags:        []string{TagSync.String()},
		Security:    APIKeyAuth,
	}, func(ctx context.Context, input *struct{}) (*BatchStatusOutput, error) {
		if svc == nil {
			return nil, huma.Error503ServiceUnavailable("sync is not configured")
		}
		return &BatchStatusOutput{Body: svc.Status()}, nil
	})
}

func syncStatus(err error) int {
	switch qerr.CodeOf(err) {
	case qerr.CodeNoTokens, qerr.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ParseWindow overrides the default window with the given bounds. A date-only
// end covers that whole day.
func ParseWindow(def whoop.Window, start, end string) (whoop.Window, error) {
	w := def
	if end != "" {
		t, dateOnlyValue, err := parseDate(end)
		if err != nil {
			return w, fmt.Errorf("invalid endDate: %w", err)
		}
		if dateOnlyValue {
			t = t.AddDate(0, 0, 1)
		}
		span := w.End.Sub(w.Start)
		w.End = t
		if start == "" {
			w.Start = t.Add(-span)
		}
	}
	if start != "" {
		t, _, err := parseDate(start)
		if err != nil {
			return w, fmt.Errorf("invalid startDate: %w", err)
		}
		w.Start = t
	}
	if !w.Start.Before(w.End) {
		return w, errors.New("startDate must be before endDate")
	}
	return w, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t, true, nil
}
