package inmemdb

import (
	"sync"

	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type (
	DB struct {
		academies  *table[academy.Academy]
		settings   *table[academy.Settings]
		players    *table[player.Player]
		coaches    *table[coach.Coach]
		attendance *table[attendance.Record]
		fees       *table[fee.StudentFee]
		demos      *table[demo.Request]
		bindings   *table[identity.Binding]
	}

	table[T any] struct {
		sync.RWMutex
		rows map[string]*T
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

// all returns a copy of every row; the caller holds the lock.
func (t *table[T]) all() []T {
	res := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		res = append(res, *r)
	}
	return res
}

// filter returns a copy of the rows matching `keep`; the caller holds the lock.
func (t *table[T]) filter(keep func(*T) bool) []T {
	res := make([]T, 0)
	for _, r := range t.rows {
		if keep(r) {
			res = append(res, *r)
		}
	}
	return res
}

func Open() (*DB, error) {
	db := &DB{
		academies:  newTable[academy.Academy](),
		settings:   newTable[academy.Settings](),
		players:    newTable[player.Player](),
		coaches:    newTable[coach.Coach](),
		attendance: newTable[attendance.Record](),
		fees:       newTable[fee.StudentFee](),
		demos:      newTable[demo.Request](),
		bindings:   newTable[identity.Binding](),
	}
	return db, nil
}
