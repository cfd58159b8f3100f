// Package memstore is a concurrency-safe in-memory record store used by the
// memory storage driver. Records are held by value; repositories store
// struct values rather than pointers so callers never alias stored state.
package memstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

// Store holds records of type T keyed by string ID.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	seq   int
	id    func(T) string
	less  func(a, b T) bool
}

// New creates a store. id extracts the key of a record; less orders Filter
// results and may be nil for natural ID order ("pat2" before "pat10").
func New[T any](id func(T) string, less func(a, b T) bool) *Store[T] {
	return &Store[T]{
		items: make(map[string]T),
		id:    id,
		less:  less,
	}
}

// NextID returns a sequential identifier such as "doc6" that is not yet in use.
func (s *Store[T]) NextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		s.seq++
		id := fmt.Sprintf("%s%d", prefix, s.seq)
		if _, ok := s.items[id]; !ok {
			return id
		}
	}
}

func (s *Store[T]) Insert(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.id(v)
	if _, ok := s.items[key]; ok {
		return fmt.Errorf("%w: %s", ErrExists, key)
	}
	s.items[key] = v
	return nil
}

func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Update applies fn to the stored record under the write lock.
func (s *Store[T]) Update(id string, fn func(v T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next, err := fn(cur)
	if err != nil {
		var zero T
		return zero, err
	}
	s.items[id] = next
	return next, nil
}

func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.items, id)
	return nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns the ordered records matching keep (all records when keep is nil).
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	out := make([]T, 0, len(s.items))
	for _, v := range s.items {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if s.less != nil {
			return s.less(out[i], out[j])
		}
		return NaturalLess(s.id(out[i]), s.id(out[j]))
	})
	return out
}

// Page returns one window of the matching records plus the total match count.
func (s *Store[T]) Page(keep func(T) bool, limit, offset int) ([]T, int) {
	all := s.Filter(keep)
	total := len(all)
	if offset >= total {
		return []T{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total
}

// NaturalLess orders IDs that share a prefix by their numeric suffix.
func NaturalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
