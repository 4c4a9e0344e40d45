package es

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/config"
	"github.com/Skotchmaster/stockroom/internal/models"
)

type fakeCluster struct {
	mu   sync.Mutex
	docs map[string]string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		var q struct {
			Query struct {
				MultiMatch struct {
					Query string `json:"query"`
				} `json:"multi_match"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&q)
		var hits []map[string]string
		for id, body := range f.docs {
			if strings.Contains(strings.ToLower(body), strings.ToLower(q.Query.MultiMatch.Query)) {
				hits = append(hits, map[string]string{"_id": id})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			f.docs[id] = string(body)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"result":"created"}`)
		case http.MethodDelete:
			if _, ok := f.docs[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"result":"not_found"}`)
				return
			}
			delete(f.docs, id)
			_, _ = io.WriteString(w, `{"result":"deleted"}`)
		}
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func newTestIndex(t *testing.T) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(&fakeCluster{docs: map[string]string{}})
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), &config.Config{ESURL: srv.URL}, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, client)
	return NewProductIndex(client, "products")
}

func TestNewClientWithoutURL(t *testing.T) {
	client, err := NewClient(context.Background(), &config.Config{}, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestProductIndexLifecycle(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexProduct(ctx, models.Product{ID: "p-1", Name: "Camiseta", Description: "Camiseta de algodón"}))
	require.NoError(t, idx.IndexProduct(ctx, models.Product{ID: "p-2", Name: "Tenis", Description: "Tenis running"}))

	ids, err := idx.SearchProducts(ctx, "tenis", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2"}, ids)

	require.NoError(t, idx.DeleteProduct(ctx, "p-2"))
	ids, err = idx.SearchProducts(ctx, "tenis", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteMissingProduct(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.DeleteProduct(context.Background(), "missing"))
}
