// Package records keeps typed entity collections in a kv.Store.
//
// Every collection lives under one fixed key as a single JSON array. Reads
// decode the whole array; mutations decode it, change it in memory and
// write the whole array back. A collection serialises its own mutations
// and, when the store supports transactions, runs each one atomically.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// ErrCorrupt is returned when a stored collection blob cannot be decoded.
var ErrCorrupt = errors.New("store corrupt")

// IDLength is the length of generated record ids.
const IDLength = 12

// Record is an entity that carries a models.Meta identity block.
type Record[T any] interface {
	Metadata() models.Meta
	WithMeta(models.Meta) T
}

// Patch changes some fields of a record.
type Patch[T any] interface {
	Apply(T) T
}

// PatchFunc adapts a function to Patch.
type PatchFunc[T any] func(T) T

func (f PatchFunc[T]) Apply(v T) T {
	return f(v)
}

type Collection[T Record[T]] struct {
	store kv.Store
	key   string

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewCollection[T Record[T]](store kv.Store, key string) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: func() string { return lo.RandomString(IDLength, lo.AlphanumericCharset) },
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// GetAll returns the records owned by userID in insertion order. A collection
// that was never written is empty.
func (c *Collection[T]) GetAll(ctx context.Context, userID string) ([]T, error) {
	items, err := c.load(ctx, c.store)
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(r T, _ int) bool {
		return r.Metadata().UserID == userID
	}), nil
}

// GetByID looks a record up by id across all owners.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (mo.Option[T], error) {
	return c.Find(ctx, func(r T) bool { return r.Metadata().ID == id })
}

// Find returns the first record matching pred.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (mo.Option[T], error) {
	items, err := c.load(ctx, c.store)
	if err != nil {
		return mo.None[T](), err
	}
	return mo.TupleToOption(lo.Find(items, pred)), nil
}

// Create stores draft under a fresh id and creation time. Any id or
// createdAt already set on draft is discarded; its UserID is kept.
func (c *Collection[T]) Create(ctx context.Context, draft T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var created T
	err := kv.Update(ctx, c.store, func(ctx context.Context, s kv.Store) error {
		items, err := c.load(ctx, s)
		if err != nil {
			return err
		}

		created = draft.WithMeta(models.Meta{
			ID:        c.uniqueID(items),
			UserID:    draft.Metadata().UserID,
			CreatedAt: c.now(),
		})

		return c.save(ctx, s, append(items, created))
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update applies patch to the record with the given id. The record keeps its
// identity block whatever the patch does. A missing id yields mo.None and
// leaves the store untouched.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch[T]) (mo.Option[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := mo.None[T]()
	err := kv.Update(ctx, c.store, func(ctx context.Context, s kv.Store) error {
		items, err := c.load(ctx, s)
		if err != nil {
			return err
		}

		orig, idx, ok := lo.FindIndexOf(items, func(r T) bool { return r.Metadata().ID == id })
		if !ok {
			return nil
		}

		updated := patch.Apply(orig).WithMeta(orig.Metadata())
		items[idx] = updated
		if err := c.save(ctx, s, items); err != nil {
			return err
		}

		result = mo.Some(updated)
		return nil
	})
	if err != nil {
		return mo.None[T](), err
	}
	return result, nil
}

// Delete removes the record with the given id and reports whether it existed.
// Nothing is written when it did not.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	err := kv.Update(ctx, c.store, func(ctx context.Context, s kv.Store) error {
		items, err := c.load(ctx, s)
		if err != nil {
			return err
		}

		_, idx, ok := lo.FindIndexOf(items, func(r T) bool { return r.Metadata().ID == id })
		if !ok {
			return nil
		}

		if err := c.save(ctx, s, slices.Delete(items, idx, idx+1)); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (c *Collection[T]) uniqueID(items []T) string {
	for {
		id := c.newID()
		taken := lo.ContainsBy(items, func(r T) bool { return r.Metadata().ID == id })
		if !taken {
			return id
		}
	}
}

func (c *Collection[T]) load(ctx context.Context, s kv.Store) ([]T, error) {
	data, err := s.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []T{}, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrCorrupt, c.key)
	}
	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return []T{}, nil
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: %s is not a JSON array", ErrCorrupt, c.key)
	}

	items := make([]T, 0, len(root.Array()))
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, c.key, err)
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, s kv.Store, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return s.Set(ctx, c.key, data)
}
