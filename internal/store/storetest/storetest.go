// Package storetest holds the behaviour every store.Collection backend must
// share. Backends run it from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/store"
)

// NewCollection returns an empty products collection for one subtest.
type NewCollection func(t *testing.T) store.Collection

func product(name string, qty int, category any) store.Document {
	return store.Document{
		"name":        name,
		"quantity":    qty,
		"price":       9.5,
		"description": name + " description",
		"category_id": category,
		"image":       nil,
	}
}

func names(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, store.String(d["name"]))
	}
	return out
}

// Run executes the collection contract against backend.
func Run(t *testing.T, newCollection NewCollection) {
	t.Run("InsertAssignsID", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, product("shirt", 15, "c1"))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		doc, err := c.FindOne(ctx, store.ByID(id))
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID())
		assert.Equal(t, "shirt", store.String(doc["name"]))
		assert.Equal(t, 15, store.Int(doc["quantity"]))
	})

	t.Run("InsertKeepsGivenID", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		doc := product("boots", 4, nil)
		doc[store.IDField] = "p-1"
		id, err := c.InsertOne(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, "p-1", id)

		got, err := c.FindOne(ctx, store.Filter{store.IDField: "p-1"})
		require.NoError(t, err)
		assert.Equal(t, "boots", store.String(got["name"]))
		assert.Nil(t, store.OptionalString(got["category_id"]))
	})

	t.Run("FindOneMissing", func(t *testing.T) {
		c := newCollection(t)

		_, err := c.FindOne(context.Background(), store.Filter{"name": "nothing"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("FindKeepsInsertionOrder", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		for _, n := range []string{"a", "b", "c"} {
			_, err := c.InsertOne(ctx, product(n, 1, nil))
			require.NoError(t, err)
		}

		docs, err := c.Find(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, names(docs))
	})

	t.Run("FindReturnsCopies", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, product("hat", 2, nil))
		require.NoError(t, err)

		docs, err := c.Find(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		docs[0]["name"] = "changed"

		got, err := c.FindOne(ctx, store.ByID(id))
		require.NoError(t, err)
		assert.Equal(t, "hat", store.String(got["name"]))
	})

	t.Run("DeleteOneRemovesFirstMatchOnly", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		_, err := c.InsertOne(ctx, product("first", 1, "c1"))
		require.NoError(t, err)
		_, err = c.InsertOne(ctx, product("second", 1, "c1"))
		require.NoError(t, err)

		require.NoError(t, c.DeleteOne(ctx, store.Filter{"category_id": "c1"}))

		docs, err := c.Find(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"second"}, names(docs))
	})

	t.Run("DeleteOneMissingIsNoop", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		_, err := c.InsertOne(ctx, product("kept", 1, nil))
		require.NoError(t, err)
		require.NoError(t, c.DeleteOne(ctx, store.ByID("does-not-exist")))

		n, err := c.CountDocuments(ctx, nil)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("UpdateOneMergesFields", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, product("lamp", 7, "c1"))
		require.NoError(t, err)

		require.NoError(t, c.UpdateOne(ctx, store.ByID(id), store.Document{"quantity": 2}))

		got, err := c.FindOne(ctx, store.ByID(id))
		require.NoError(t, err)
		assert.Equal(t, 2, store.Int(got["quantity"]))
		assert.Equal(t, "lamp", store.String(got["name"]))
		assert.Equal(t, "c1", store.String(got["category_id"]))
	})

	t.Run("UpdateOneMissingIsNoop", func(t *testing.T) {
		c := newCollection(t)
		require.NoError(t, c.UpdateOne(context.Background(), store.ByID("missing"), store.Document{"quantity": 1}))
	})

	t.Run("UpdateManyCountsMatches", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		for _, cat := range []string{"c1", "c1", "c2"} {
			_, err := c.InsertOne(ctx, product("item", 1, cat))
			require.NoError(t, err)
		}

		n, err := c.UpdateMany(ctx, store.Filter{"category_id": "c1"}, store.Document{"description": "bulk"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		bulk, err := c.CountDocuments(ctx, store.Filter{"description": "bulk"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, bulk)
	})

	t.Run("CountDocuments", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		for _, q := range []int{3, 5, 6, 10} {
			_, err := c.InsertOne(ctx, product("item", q, "c1"))
			require.NoError(t, err)
		}

		all, err := c.CountDocuments(ctx, store.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, all)

		low, err := c.CountDocuments(ctx, store.Filter{"quantity": store.Lte(5)})
		require.NoError(t, err)
		assert.EqualValues(t, 2, low)

		byCategory, err := c.CountDocuments(ctx, store.Filter{"category_id": "c1"})
		require.NoError(t, err)
		assert.EqualValues(t, 4, byCategory)

		none, err := c.CountDocuments(ctx, store.Filter{"category_id": "c9"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, none)
	})
}
