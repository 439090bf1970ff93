package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocart/backend/internal/domain"
)

func TestClient_Attempt(t *testing.T) {
	t.Run("maps first shopping result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search.json", r.URL.Path)
			assert.Equal(t, "Bamboo Cutlery Set", r.URL.Query().Get("q"))
			assert.Equal(t, "shop", r.URL.Query().Get("tbm"))
			assert.Equal(t, "serp-key", r.URL.Query().Get("api_key"))
			w.Write([]byte(`{"shopping_results": [
				{"title": "Bamboo Cutlery", "description": "Sustainable travel set", "thumbnail": "https://img.example.com/t.jpg", "image": "https://img.example.com/i.jpg"},
				{"title": "Other"}
			]}`))
		}))
		defer server.Close()

		result := NewClient(server.URL, "serp-key", time.Second).Attempt(context.Background(), "Bamboo Cutlery Set")

		require.False(t, result.Failed())
		assert.Equal(t, "https://img.example.com/t.jpg", result.Product.ImageURL)
		assert.Equal(t, "Bamboo Cutlery. Sustainable travel set", result.Product.Description)
		assert.Equal(t, 75, result.Product.EcoHint)
	})

	t.Run("falls back to image and title only", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"shopping_results": [{"title": "Plastic Fork", "image": "https://img.example.com/i.jpg"}]}`))
		}))
		defer server.Close()

		result := NewClient(server.URL, "k", time.Second).Attempt(context.Background(), "fork")

		require.False(t, result.Failed())
		assert.Equal(t, "https://img.example.com/i.jpg", result.Product.ImageURL)
		assert.Equal(t, "Plastic Fork", result.Product.Description)
		assert.Equal(t, 30, result.Product.EcoHint)
	})

	t.Run("no results is an empty source", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"search_metadata": {"status": "Success"}}`))
		}))
		defer server.Close()

		result := NewClient(server.URL, "k", time.Second).Attempt(context.Background(), "fork")

		assert.ErrorIs(t, result.Err, domain.ErrSourceEmpty)
	})

	t.Run("api error is an empty source", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "Invalid API key."}`))
		}))
		defer server.Close()

		result := NewClient(server.URL, "k", time.Second).Attempt(context.Background(), "fork")

		assert.ErrorIs(t, result.Err, domain.ErrSourceEmpty)
	})

	t.Run("non-200 is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		result := NewClient(server.URL, "k", time.Second).Attempt(context.Background(), "fork")

		assert.ErrorIs(t, result.Err, domain.ErrUpstreamUnreachable)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		result := NewClient(server.URL, "k", time.Second).Attempt(context.Background(), "fork")

		assert.True(t, result.Failed())
	})
}

func TestKeywordHint(t *testing.T) {
	assert.Equal(t, 50, keywordHint("Steel Bottle"))
	assert.Equal(t, 75, keywordHint("Organic eco sustainable"))
	assert.Equal(t, 30, keywordHint("plastic cup"))
	assert.Equal(t, 55, keywordHint("eco bottle with plastic lid"))
}
