// Package memory holds map-backed implementations of the repository ports for tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"learnhub/repository"
)

type entity[T any] interface {
	*T
	GetID() uint
	SetID(uint)
}

// table is a tiny id-keyed store. Rows are copied in and out so callers never alias stored state.
type table[T any, P entity[T]] struct {
	mu    sync.Mutex
	next  uint
	rows  map[uint]T
	clone func(T) T
}

func newTable[T any, P entity[T]](clone func(T) T) *table[T, P] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T, P]{rows: map[uint]T{}, clone: clone}
}

func (t *table[T, P]) insert(v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	P(v).SetID(t.next)
	t.rows[t.next] = t.clone(*v)
}

// save inserts when the id is zero, replaces otherwise.
func (t *table[T, P]) save(v *T) {
	if P(v).GetID() == 0 {
		t.insert(v)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[P(v).GetID()] = t.clone(*v)
}

func (t *table[T, P]) get(id uint) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := t.clone(v)
	return &out, nil
}

func (t *table[T, P]) remove(id uint) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T, P]) removeWhere(fn func(*T) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range t.rows {
		if fn(&v) {
			delete(t.rows, id)
		}
	}
}

// filter returns matching rows ordered by id.
func (t *table[T, P]) filter(fn func(*T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v := t.rows[id]
		if fn == nil || fn(&v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

func (t *table[T, P]) first(fn func(*T) bool) (*T, error) {
	rows := t.filter(fn)
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

func (t *table[T, P]) update(id uint, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&v)
	t.rows[id] = v
	return nil
}

func paginate[T any](rows []T, p repository.Page) []T {
	if p.Limit <= 0 {
		return rows
	}
	start := p.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
