package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

func newCatalogStub(t *testing.T) *httptest.Server {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch mux.Vars(r)["id"] {
		case "101":
			w.Write([]byte(`{
				"id": 101,
				"title": "Widget",
				"category": "tools",
				"brand": "Acme",
				"rating": 4.5,
				"price": 9.99,
				"stock": 83,
				"thumbnail": "https://cdn.example.com/101.png"
			}`))
		case "102":
			// Optional fields missing entirely.
			w.Write([]byte(`{"id": 102, "title": "Mystery Item"}`))
		case "666":
			w.Write([]byte(`{"id": not even json`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Product not found"}`))
		}
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestFetchProduct(t *testing.T) {
	server := newCatalogStub(t)
	client := NewCatalogAPIClient(server.URL, 5*time.Second, 1000, logger.Discard())
	ctx := context.Background()

	t.Run("successful lookup", func(t *testing.T) {
		entry, err := client.FetchProduct(ctx, "101")
		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.Equal(t, "101", entry.Key)
		require.NotNil(t, entry.Category)
		assert.Equal(t, "tools", *entry.Category)
		require.NotNil(t, entry.Brand)
		assert.Equal(t, "Acme", *entry.Brand)
		require.NotNil(t, entry.Rating)
		assert.Equal(t, 4.5, *entry.Rating)
	})

	t.Run("missing optional fields stay absent", func(t *testing.T) {
		entry, err := client.FetchProduct(ctx, "102")
		require.NoError(t, err)

		require.NotNil(t, entry.Title)
		assert.Equal(t, "Mystery Item", *entry.Title)
		assert.Nil(t, entry.Category)
		assert.Nil(t, entry.Brand)
		assert.Nil(t, entry.Rating)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := client.FetchProduct(ctx, "999")
		assert.ErrorIs(t, err, entity.ErrProductNotFound)
	})

	t.Run("malformed response is an error, not a panic", func(t *testing.T) {
		_, err := client.FetchProduct(ctx, "666")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed catalog response")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := client.FetchProduct(ctx, "")
		assert.Error(t, err)
	})
}

func TestFetchProductRetry(t *testing.T) {
	t.Run("one retry then failure", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			// Kill the connection so the client sees a transport error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
		}))
		defer server.Close()

		client := NewCatalogAPIClient(server.URL, 2*time.Second, 1000, logger.Discard())
		_, err := client.FetchProduct(context.Background(), "101")

		require.Error(t, err)
		assert.Equal(t, int32(maxAttempts), calls.Load())
	})

	t.Run("unreachable service fails cleanly", func(t *testing.T) {
		client := NewCatalogAPIClient("http://127.0.0.1:1", 500*time.Millisecond, 1000, logger.Discard())
		_, err := client.FetchProduct(context.Background(), "101")
		assert.Error(t, err)
	})

	t.Run("slow service hits the per-call timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		}))
		defer server.Close()

		client := NewCatalogAPIClient(server.URL, 100*time.Millisecond, 1000, logger.Discard())
		start := time.Now()
		_, err := client.FetchProduct(context.Background(), "101")

		require.Error(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}
