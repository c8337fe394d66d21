// Package qart archives the raw provider payloads fetched during a sync run
// in S3-compatible object storage, so a run can be replayed or audited.
package qart

import (
	"context"
	"io"
	"time"
)

// Object describes one archived payload.
type Object struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Store is the object storage the archive writes through.
type Store interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) (*Object, error)

	// Download returns ErrNotFound for a missing key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	List(ctx context.Context, prefix string) ([]*Object, error)

	DeletePrefix(ctx context.Context, prefix string) error

	EnsureBucket(ctx context.Context) error
}

// RawPrefix is "raw/{userId}/{runId}/"; an empty runID gives the user's
// prefix across all runs.
func RawPrefix(userID, runID string) string {
	if runID == "" {
		return "raw/" + userID + "/"
	}
	return "raw/" + userID + "/" + runID + "/"
}

// RawKey is "raw/{userId}/{runId}/{stream}.json".
func RawKey(userID, runID, stream string) string {
	return RawPrefix(userID, runID) + stream + ".json"
}
