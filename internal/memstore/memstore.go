// Package memstore implements the repository and cache interfaces in process
// memory. It backs the server when STORAGE=memory and the service tests.
package memstore

import (
	"encoding/json"
	"sort"
	"sync"
)

// clone deep-copies v so callers never share slices or maps with the store.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

// table is a mutex-guarded map of records keyed by id.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) put(id string, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = clone(v)
}

func (t *table[T]) get(id string) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.rows[id])
}

func (t *table[T]) has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	delete(t.rows, id)
	return ok
}

// update applies fn to the stored record in place.
func (t *table[T]) update(id string, fn func(*T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if ok {
		fn(v)
	}
	return ok
}

// find returns copies of every record that matches, ordered by less.
func (t *table[T]) find(match func(*T) bool, less func(a, b *T) bool) []*T {
	t.mu.RLock()
	out := []*T{}
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, clone(v))
		}
	}
	t.mu.RUnlock()
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func page[T any](rows []*T, offset, limit int) []*T {
	if offset >= len(rows) {
		return []*T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
