package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/quatton/vitalsync/pkg/qerr"
)

// Store is durable secret storage for TokenRecords, namespaced per user.
//
// Get returns a qerr.CodeNotFound error when no record exists. Backend
// failures carry qerr.CodeStoreUnavailable.
type Store interface {
	Get(ctx context.Context, userID string) (*TokenRecord, error)
	Put(ctx context.Context, userID string, rec *TokenRecord) error
	Delete(ctx context.Context, userID string) error

	// ListUserIDs lazily enumerates every user with stored credentials.
	// Each call starts a fresh cursor walk, so the sequence can be ranged
	// over more than once. Iteration stops after the first error.
	ListUserIDs(ctx context.Context) iter.Seq2[string, error]

	// GetClientCredentials reads the integration credentials for provider.
	GetClientCredentials(ctx context.Context, provider string) (*ClientCredentials, error)
}

// KVStore keeps credentials as JSON values in a kv.Store.
type KVStore struct {
	kv       kv.Store
	pageSize int64
}

// NewKVStore returns a Store backed by store. pageSize is the SCAN count hint
// used when listing users; values <= 0 default to 100.
func NewKVStore(store kv.Store, pageSize int64) *KVStore {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &KVStore{kv: store, pageSize: pageSize}
}

func (s *KVStore) Get(ctx context.Context, userID string) (*TokenRecord, error) {
	var rec TokenRecord
	if err := s.getJSON(ctx, TokenKey(userID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *KVStore) Put(ctx context.Context, userID string, rec *TokenRecord) error {
	if rec == nil {
		return errors.New("credentials: nil token record")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey(userID), raw, 0); err != nil {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("put %s: %w", TokenKey(userID), err))
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, userID string) error {
	if err := s.kv.Delete(ctx, TokenKey(userID)); err != nil {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("delete %s: %w", TokenKey(userID), err))
	}
	return nil
}

func (s *KVStore) ListUserIDs(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		// SCAN may return a key more than once across pages.
		seen := make(map[string]struct{})
		var cursor uint64
		for {
			keys, next, err := s.kv.Scan(ctx, TokenNamespace, cursor, s.pageSize)
			if err != nil {
				yield("", qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("scan %s: %w", TokenNamespace, err)))
				return
			}
			for _, key := range keys {
				id := strings.TrimPrefix(key, TokenNamespace)
				if id == "" {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if !yield(id, nil) {
					return
				}
			}
			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

func (s *KVStore) GetClientCredentials(ctx context.Context, provider string) (*ClientCredentials, error) {
	var creds ClientCredentials
	if err := s.getJSON(ctx, IntegrationKey(provider), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *KVStore) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return qerr.Newf(qerr.CodeNotFound, "%s not found", key)
	}
	if err != nil {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("get %s: %w", key, err))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// CollectUserIDs drains seq into a slice, stopping at the first error.
func CollectUserIDs(seq iter.Seq2[string, error]) ([]string, error) {
	var ids []string
	for id, err := range seq {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var _ Store = (*KVStore)(nil)
