package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that found nothing
var ErrNotFound = errors.New("not found")

// KeyValueStoreInterface defines the contract for the storefront's persisted state.
// Values are opaque JSON documents; a missing key is reported with found=false, not an error.
type KeyValueStoreInterface interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// TTLStoreInterface is implemented by stores that can expire keys on their own
type TTLStoreInterface interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ChangeNotifierInterface is implemented by stores that can report keys changed by another writer
type ChangeNotifierInterface interface {
	Subscribe(fn func(key string)) (unsubscribe func())
}

// subscribers is a small fan-out list shared by the notifying stores
type subscribers struct {
	next int
	fns  map[int]func(string)
}

func (s *subscribers) add(fn func(string)) int {
	if s.fns == nil {
		s.fns = make(map[int]func(string))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return id
}

func (s *subscribers) remove(id int) {
	delete(s.fns, id)
}

func (s *subscribers) snapshot() []func(string) {
	out := make([]func(string), 0, len(s.fns))
	for _, fn := range s.fns {
		out = append(out, fn)
	}
	return out
}
