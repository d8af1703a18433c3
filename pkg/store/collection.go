package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/notely/pkg/core"
)

// Snapshot is an immutable view of a collection store.
// Version increases with every change, so a listener receiving snapshots
// from concurrent operations can discard stale ones.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Error   string
	Version uint64
}

// NotesSnapshot is the observable state of the Notes store.
type NotesSnapshot = Snapshot[core.Note]

// TagsSnapshot is the observable state of the Tags store.
type TagsSnapshot = Snapshot[core.Tag]

// collection is the state shared by the Notes and Tags stores: an ordered
// list mirroring one remote resource, a loading flag and a last error.
//
// The loading flag is a plain boolean. Two overlapping operations race on
// it: whichever completes first clears it while the other is still running.
type collection[T any] struct {
	kind   string
	idOf   func(T) core.ID
	clone  func(T) T
	logger *slog.Logger

	mu       sync.Mutex
	items    []T
	loading  bool
	err      string
	version  uint64
	loads    int64
	lastLoad *time.Time

	changes broadcaster[Snapshot[T]]
}

func newCollection[T any](kind string, idOf func(T) core.ID, clone func(T) T, logger *slog.Logger) *collection[T] {
	return &collection[T]{
		kind:   kind,
		idOf:   idOf,
		clone:  clone,
		logger: logger,
		items:  []T{},
	}
}

func (c *collection[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	for i, item := range c.items {
		items[i] = c.clone(item)
	}
	return Snapshot[T]{
		Items:   items,
		Loading: c.loading,
		Error:   c.err,
		Version: c.version,
	}
}

func (c *collection[T]) snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// mutate applies fn under the lock and notifies listeners once it is released.
func (c *collection[T]) mutate(fn func()) {
	c.mu.Lock()
	fn()
	c.version++
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.changes.notify(s)
}

func (c *collection[T]) begin() {
	c.mutate(func() { c.loading = true })
}

// succeed clears the loading flag and applies the confirmed change.
func (c *collection[T]) succeed(apply func()) {
	c.mutate(func() {
		c.loading = false
		if apply != nil {
			apply()
		}
	})
}

// fail clears the loading flag. A *core.RemoteError is recorded as the store
// error and returned carrying fallback; any other error passes through
// without touching the error field.
func (c *collection[T]) fail(err error, fallback string) error {
	re, isRemote := core.AsRemote(err)
	c.mutate(func() {
		c.loading = false
		if isRemote {
			c.err = re.Display(fallback)
		}
	})

	if c.logger != nil {
		c.logger.Debug("store operation failed", "store", c.kind, "error", err)
	}
	if isRemote {
		return re.WithFallback(fallback)
	}
	return err
}

func (c *collection[T]) clearError() {
	c.mutate(func() { c.err = "" })
}

func (c *collection[T]) replace(items []T) {
	now := time.Now()
	c.loads++
	c.lastLoad = &now
	if items == nil {
		items = []T{}
	}
	c.items = items
}

func (c *collection[T]) reset() {
	c.mutate(func() {
		c.items = []T{}
		c.loading = false
	})
}

func (c *collection[T]) appendItem(item T) {
	c.items = append(c.items, item)
}

// modify applies fn to every entry whose id matches.
func (c *collection[T]) modify(id core.ID, fn func(T) T) {
	for i, item := range c.items {
		if c.idOf(item) == id {
			c.items[i] = fn(item)
		}
	}
}

// remove drops the entries whose id matches, preserving order.
func (c *collection[T]) remove(id core.ID) {
	c.items = slices.DeleteFunc(slices.Clone(c.items), func(item T) bool {
		return c.idOf(item) == id
	})
}

func (c *collection[T]) find(id core.ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return c.clone(item), true
		}
	}
	var zero T
	return zero, false
}
