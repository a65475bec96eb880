package views

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

var ErrViewNotFound = errors.New("view not found")

// Closer is anything that must be torn down when its view goes away.
type Closer interface {
	Close() error
}

// Store keeps mounted screens in process memory, keyed by a random view id.
// A view idle for longer than the TTL is closed and forgotten; every Get
// counts as use. A TTL of zero keeps views until they are deleted.
type Store[T Closer] struct {
	cache *ttlcache.Cache[string, T]
}

func NewStore[T Closer](ttl time.Duration) *Store[T] {
	cache := ttlcache.New[string, T](
		ttlcache.WithTTL[string, T](ttl),
	)
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, T]) {
		// Delete and Close tear down their own views so they can report errors.
		if reason == ttlcache.EvictionReasonDeleted {
			return
		}
		_ = item.Value().Close()
	})
	return &Store[T]{cache: cache}
}

// Put registers v and returns its view id.
func (s *Store[T]) Put(v T) string {
	id := uuid.NewString()
	s.cache.Set(id, v, ttlcache.DefaultTTL)
	return id
}

// Get returns the view and marks it as used.
func (s *Store[T]) Get(id string) (T, error) {
	if item := s.cache.Get(id); item != nil {
		return item.Value(), nil
	}
	// an expired view lingers until evicted; close it now
	s.cache.DeleteExpired()
	var zero T
	return zero, ErrViewNotFound
}

// Delete closes and forgets a view. Unknown ids are ignored.
func (s *Store[T]) Delete(id string) error {
	item, ok := s.cache.GetAndDelete(id)
	if !ok {
		return nil
	}
	return item.Value().Close()
}

func (s *Store[T]) Len() int {
	return s.cache.Len()
}

// Sweep closes every expired view and reports how many went.
func (s *Store[T]) Sweep() int {
	before := s.cache.Len()
	s.cache.DeleteExpired()
	return before - s.cache.Len()
}

// Run evicts views as they expire until ctx is done.
func (s *Store[T]) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.cache.Start()
		close(done)
	}()
	<-ctx.Done()
	s.cache.Stop()
	<-done
}

// Close tears down all views.
func (s *Store[T]) Close() error {
	var errs []error
	for _, item := range s.cache.Items() {
		if err := item.Value().Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.cache.DeleteAll()
	return errors.Join(errs...)
}
