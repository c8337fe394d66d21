package qart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Archive writes one JSON object per stream under the run's prefix.
type Archive struct {
	store Store
}

func NewArchive(store Store) *Archive {
	return &Archive{store: store}
}

// Put stores each payload at RawKey(userID, runID, stream). Every stream is
// attempted; the returned error joins the ones that failed.
func (a *Archive) Put(ctx context.Context, userID, runID string, payloads map[string]any) error {
	streams := make([]string, 0, len(payloads))
	for s := range payloads {
		streams = append(streams, s)
	}
	sort.Strings(streams)

	var errs []error
	for _, stream := range streams {
		raw, err := json.Marshal(payloads[stream])
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", stream, err))
			continue
		}
		_, err = a.store.Upload(ctx, RawKey(userID, runID, stream), bytes.NewReader(raw), int64(len(raw)), "application/json", map[string]string{
			"user-id": userID,
			"run-id":  runID,
			"stream":  stream,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", stream, err))
		}
	}
	return errors.Join(errs...)
}

// Get decodes one archived stream into v.
func (a *Archive) Get(ctx context.Context, userID, runID, stream string, v any) error {
	rc, err := a.store.Download(ctx, RawKey(userID, runID, stream))
	if err != nil {
		return err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Runs lists the objects archived for userID, optionally narrowed to runID.
func (a *Archive) Runs(ctx context.Context, userID, runID string) ([]*Object, error) {
	return a.store.List(ctx, RawPrefix(userID, runID))
}

// Purge deletes everything archived for userID.
func (a *Archive) Purge(ctx context.Context, userID string) error {
	return a.store.DeletePrefix(ctx, RawPrefix(userID, ""))
}
