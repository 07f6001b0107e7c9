// Generic per-collection store operations.
//
// Collection[T] gives every resource the same six primitives — count, find,
// findByID, insert, updateByID, deleteByID — so the per-resource HTTP glue
// stays byte-for-byte consistent. Filters and pagination plans built by the
// query translator are applied opaquely; no business logic lives here.
//
// Error semantics follow the thin-repository approach: a missing record is
// ErrNotFound (an alias of gorm.ErrRecordNotFound); other database errors are
// propagated raw for the terminal error mapping to classify.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/query"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for errors.Is checks across layers.
var ErrNotFound = gorm.ErrRecordNotFound

// Collection provides the document-store operations for one entity type.
// It is safe for concurrent use; all state is the shared *gorm.DB handle.
type Collection[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewCollection returns a Collection for T backed by db.
func NewCollection[T any](db *gorm.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

// WithPreloads returns a copy of the collection that eagerly loads the named
// associations on Find and FindByID (e.g. order items).
func (c *Collection[T]) WithPreloads(assocs ...string) *Collection[T] {
	cp := *c
	cp.preloads = append(append([]string{}, c.preloads...), assocs...)
	return &cp
}

func (c *Collection[T]) query(ctx context.Context) *gorm.DB {
	db := c.db.WithContext(ctx).Model(new(T))
	for _, p := range c.preloads {
		db = db.Preload(p)
	}
	return db
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter query.Filter) (int64, error) {
	var total int64
	err := filter.Apply(c.db.WithContext(ctx).Model(new(T))).Count(&total).Error
	return total, err
}

// Find returns the page of documents selected by filter and plan. The count
// and find pair issued by list handlers is not transactional: the store may
// mutate between the two calls, and total and data may disagree under
// concurrent writes.
func (c *Collection[T]) Find(ctx context.Context, filter query.Filter, plan query.Plan) ([]T, error) {
	out := []T{}
	err := plan.Apply(filter.Apply(c.query(ctx))).Find(&out).Error
	return out, err
}

// FindByID fetches a single document by primary key, or ErrNotFound.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var e T
	if err := c.query(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert persists a new document, including any loaded associations.
func (c *Collection[T]) Insert(ctx context.Context, e *T) error {
	return c.db.WithContext(ctx).Create(e).Error
}

// Update saves the full document. Used by handlers that fetch, merge the
// request body, and write back.
func (c *Collection[T]) Update(ctx context.Context, e *T) error {
	return c.db.WithContext(ctx).Save(e).Error
}

// UpdateByID applies a column patch to the document with the given id and
// returns the post-mutation document, or ErrNotFound when no row matched.
func (c *Collection[T]) UpdateByID(ctx context.Context, id string, patch map[string]any) (*T, error) {
	res := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return c.FindByID(ctx, id)
}

// DeleteByID removes the document with the given id and returns it, or
// ErrNotFound when it does not exist. A second delete of the same id is
// therefore a clean 404 at the HTTP layer, never a 500.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	e, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return nil, err
	}
	return e, nil
}
