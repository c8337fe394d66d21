package kv

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned by Acquire when another holder owns the lock.
var ErrLocked = errors.New("kv: lock held by another owner")

// Lock is a best-effort mutual exclusion built on SetNX. The TTL bounds how
// long a crashed holder can block others.
type Lock struct {
	store Store
	key   string
	token []byte
}

// Acquire takes the lock at key or returns ErrLocked.
func Acquire(ctx context.Context, store Store, key string, ttl time.Duration) (*Lock, error) {
	token := []byte(uuid.NewString())
	ok, err := store.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{store: store, key: key, token: token}, nil
}

// Release drops the lock if it is still ours. A lock that expired and was
// taken by someone else is left alone.
func (l *Lock) Release(ctx context.Context) error {
	current, err := l.store.Get(ctx, l.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if string(current) != string(l.token) {
		return nil
	}
	return l.store.Delete(ctx, l.key)
}
