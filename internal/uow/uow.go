// Package uow tracks searchable objects touched inside a database
// transaction and mirrors them into the search index once the
// transaction has committed.
package uow

import (
	"context"
	"errors"
	"sync"
)

// Indexable is an object whose text fields are mirrored into an external index.
type Indexable interface {
	IndexName() string
	IndexID() int64
	IndexFields() map[string]string
}

// Indexer is the write side of the external index.
type Indexer interface {
	Add(ctx context.Context, index string, id int64, fields map[string]string) error
	Remove(ctx context.Context, index string, id int64) error
}

// UnitOfWork collects the Indexable objects added, updated and deleted
// during one transaction. It is safe for concurrent use.
type UnitOfWork struct {
	mu      sync.Mutex
	added   []Indexable
	updated []Indexable
	deleted []Indexable
}

// New returns an empty UnitOfWork.
func New() *UnitOfWork {
	return &UnitOfWork{}
}

// Added registers a newly created object.
func (u *UnitOfWork) Added(obj Indexable) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.added = append(u.added, obj)
}

// Updated registers a modified object.
func (u *UnitOfWork) Updated(obj Indexable) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.updated = append(u.updated, obj)
}

// Deleted registers a removed object.
func (u *UnitOfWork) Deleted(obj Indexable) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, obj)
}

// Snapshot captures the pending changes and resets the unit of work.
// Call it right before commit.
func (u *UnitOfWork) Snapshot() Changes {
	u.mu.Lock()
	defer u.mu.Unlock()
	c := Changes{Added: u.added, Updated: u.updated, Deleted: u.deleted}
	u.added, u.updated, u.deleted = nil, nil, nil
	return c
}

// Changes is a frozen set of index mutations.
type Changes struct {
	Added   []Indexable
	Updated []Indexable
	Deleted []Indexable
}

// Empty reports whether there is nothing to apply.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// Apply upserts added and updated objects, then removes deleted ones. An
// object that was both added and deleted in the same transaction ends up
// absent. Every mutation is attempted; failures are joined.
func (c Changes) Apply(ctx context.Context, idx Indexer) error {
	var errs []error
	for _, group := range [][]Indexable{c.Added, c.Updated} {
		for _, obj := range group {
			if err := idx.Add(ctx, obj.IndexName(), obj.IndexID(), obj.IndexFields()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, obj := range c.Deleted {
		if err := idx.Remove(ctx, obj.IndexName(), obj.IndexID()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type uowKey struct{}

// WithUnitOfWork stores u in ctx.
func WithUnitOfWork(ctx context.Context, u *UnitOfWork) context.Context {
	return context.WithValue(ctx, uowKey{}, u)
}

// FromContext returns the UnitOfWork in ctx, or nil.
func FromContext(ctx context.Context) *UnitOfWork {
	u, _ := ctx.Value(uowKey{}).(*UnitOfWork)
	return u
}

// TrackAdded registers obj with the unit of work in ctx, if any.
func TrackAdded(ctx context.Context, obj Indexable) {
	if u := FromContext(ctx); u != nil {
		u.Added(obj)
	}
}

// TrackUpdated registers obj with the unit of work in ctx, if any.
func TrackUpdated(ctx context.Context, obj Indexable) {
	if u := FromContext(ctx); u != nil {
		u.Updated(obj)
	}
}

// TrackDeleted registers obj with the unit of work in ctx, if any.
func TrackDeleted(ctx context.Context, obj Indexable) {
	if u := FromContext(ctx); u != nil {
		u.Deleted(obj)
	}
}
