// Package memory is the in-process fallback used when the primary store is
// unreachable. Nothing is persisted.
package memory

import (
	"context"
	"sync"

	"github.com/Skotchmaster/stockroom/internal/store"
)

type Collection struct {
	mu   sync.RWMutex
	rows []store.Document
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) InsertOne(ctx context.Context, doc store.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	row := doc.Clone()
	if row.ID() == "" {
		row[store.IDField] = store.NewID()
	}

	c.mu.Lock()
	c.rows = append(c.rows, row)
	c.mu.Unlock()

	return row.ID(), nil
}

func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(filter)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	return c.rows[i].Clone(), nil
}

func (c *Collection) Find(ctx context.Context) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]store.Document, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(filter); i >= 0 {
		c.rows = append(c.rows[:i], c.rows[i+1:]...)
	}
	return nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, set store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(filter); i >= 0 {
		merge(c.rows[i], set)
	}
	return nil
}

func (c *Collection) UpdateMany(ctx context.Context, filter store.Filter, set store.Document) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, r := range c.rows {
		if Matches(r, filter) {
			merge(r, set)
			n++
		}
	}
	return n, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(filter) == 0 {
		return int64(len(c.rows)), nil
	}
	var n int64
	for _, r := range c.rows {
		if Matches(r, filter) {
			n++
		}
	}
	return n, nil
}

func (c *Collection) indexOf(filter store.Filter) int {
	for i, r := range c.rows {
		if Matches(r, filter) {
			return i
		}
	}
	return -1
}

// merge is a shallow field merge; the id is never rewritten.
func merge(dst, set store.Document) {
	for k, v := range set {
		if k == store.IDField {
			continue
		}
		dst[k] = v
	}
}

// Matches reports whether doc satisfies every condition in filter.
// Equality compares string forms; Lte compares numerically with a missing
// field read as 0.
func Matches(doc store.Document, filter store.Filter) bool {
	for k, want := range filter {
		if op, ok := want.(store.Op); ok {
			switch op.Kind {
			case store.OpLte:
				have, ok := store.Float(doc[k])
				if _, present := doc[k]; !present || doc[k] == nil {
					have, ok = 0, true
				}
				limit, lok := store.Float(op.Value)
				if !ok || !lok || have > limit {
					return false
				}
				continue
			default:
				want = op.Value
			}
		}
		if store.String(doc[k]) != store.String(want) {
			return false
		}
	}
	return true
}

// Store is the fallback implementation of store.Store.
type Store struct {
	users      *Collection
	products   *Collection
	categories *Collection
}

func New() *Store {
	return &Store{
		users:      NewCollection(),
		products:   NewCollection(),
		categories: NewCollection(),
	}
}

func (s *Store) Users() store.Collection      { return s.users }
func (s *Store) Products() store.Collection   { return s.products }
func (s *Store) Categories() store.Collection { return s.categories }

func (s *Store) Backend() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }
