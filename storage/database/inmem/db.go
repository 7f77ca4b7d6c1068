// Package inmemdb keeps records in process memory. Used by tests and the `memory` engine.
package inmemdb

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
)

type record[T any] struct {
	seq int
	val T
}

type table[T any] struct {
	mutex sync.RWMutex
	seq   int
	rows  map[string]*record[T]
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*record[T])}
}

// sorted returns a copy of the rows matching keep, ordered by less (ties broken by insertion order).
// Callers must hold the read lock.
func (t *table[T]) sorted(keep func(T) bool, less func(a, b T) bool) []T {
	recs := make([]*record[T], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r.val) {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if less(a.val, b.val) {
			return true
		}
		if less(b.val, a.val) {
			return false
		}
		return a.seq > b.seq
	})
	vals := make([]T, 0, len(recs))
	for _, r := range recs {
		vals = append(vals, r.val)
	}
	return vals
}

type DB struct {
	user         *table[user.User]
	announcement *table[announcement.Announcement]
	quiz         *table[quiz.Quiz]
}

func New() *DB {
	return &DB{
		user:         newTable[user.User](),
		announcement: newTable[announcement.Announcement](),
		quiz:         newTable[quiz.Quiz](),
	}
}

func (db *DB) Close() error { return nil }

func newID() string { return uuid.NewString() }

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.ErrInvalidID
	}
	return nil
}

func newestFirst(a, b time.Time) bool { return a.After(b) }

// paginate returns the requested window of vals.
func paginate[T any](vals []T, page core.PageRequest) []T {
	start, end := page.Window(len(vals))
	out := make([]T, end-start)
	copy(out, vals[start:end])
	return out
}
