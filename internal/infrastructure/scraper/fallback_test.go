package scraper

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

const imageSearchPage = `<html><body>
<img src="https://search.example.com/logo.png">
<img src="data:image/gif;base64,R0lGOD">
<img src="/relative.png">
<img src="https://images.example.com/widget.jpg">
<img src="https://images.example.com/second.jpg">
</body></html>`

const articlePage = `<html><body>
<p>   </p>
<p>A <b>widget</b> is a small
   gadget.</p>
<p>Second paragraph.</p>
</body></html>`

func TestWebFallback_Attempt(t *testing.T) {
	t.Run("combines image search and article summary", func(t *testing.T) {
		server := htmlServer(t, map[string]string{
			"/search":            imageSearchPage,
			"/wiki/Green_Widget": articlePage,
		})

		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki/", "", time.Second)
		result := source.Attempt(context.Background(), "Green Widget")

		require.False(t, result.Failed())
		assert.Equal(t, "https://images.example.com/widget.jpg", result.Product.ImageURL)
		assert.Equal(t, "A widget is a small gadget.", result.Product.Description)
	})

	t.Run("title only when image search fails", func(t *testing.T) {
		server := htmlServer(t, map[string]string{"/wiki/Green_Widget": articlePage})

		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki", "", time.Second)
		result := source.Attempt(context.Background(), "Green Widget")

		require.False(t, result.Failed())
		assert.Empty(t, result.Product.ImageURL)
		assert.Equal(t, "A widget is a small gadget.", result.Product.Description)
	})

	t.Run("single logo image yields no picture", func(t *testing.T) {
		server := htmlServer(t, map[string]string{
			"/search": `<img src="https://search.example.com/logo.png">`,
		})

		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki", "", time.Second)
		result := source.Attempt(context.Background(), "Green Widget")

		assert.True(t, result.Failed())
		assert.ErrorIs(t, result.Err, domain.ErrUpstreamUnreachable)
	})

	t.Run("both halves empty is an empty source", func(t *testing.T) {
		server := htmlServer(t, map[string]string{
			"/search":            "<html></html>",
			"/wiki/Green_Widget": "<html></html>",
		})

		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki", "", time.Second)
		result := source.Attempt(context.Background(), "Green Widget")

		assert.ErrorIs(t, result.Err, domain.ErrSourceEmpty)
	})
}

// stallingSearchServer never answers /search before the client gives up
func stallingSearchServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
			return
		}
		w.Write([]byte(articlePage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebFallback_SlowImageSearch(t *testing.T) {
	t.Run("summary survives an image search that eats the source deadline", func(t *testing.T) {
		server := stallingSearchServer(t)
		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki", "", 2*time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		result := source.Attempt(ctx, "Green Widget")

		require.False(t, result.Failed())
		assert.Empty(t, result.Product.ImageURL)
		assert.Equal(t, "A widget is a small gadget.", result.Product.Description)
	})

	t.Run("each lookup is bounded by its own timeout", func(t *testing.T) {
		server := stallingSearchServer(t)
		source := NewWebFallback(server.URL+"/search", server.URL+"/wiki", "", 100*time.Millisecond)

		start := time.Now()
		result := source.Attempt(context.Background(), "Green Widget")

		require.False(t, result.Failed())
		assert.Equal(t, "A widget is a small gadget.", result.Product.Description)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/a", absoluteURL("https://shop.example.com/", "/a"))
	assert.Equal(t, "https://cdn.example.com/b.jpg", absoluteURL("https://shop.example.com", "//cdn.example.com/b.jpg"))
	assert.Equal(t, "https://x.example.com/c", absoluteURL("https://shop.example.com", "https://x.example.com/c"))
	assert.Equal(t, "", absoluteURL("https://shop.example.com", "  "))
}
