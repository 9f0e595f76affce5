package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearch_Invoke(t *testing.T) {
	t.Run("formats results", func(t *testing.T) {
		var received tavilyRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/search", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]string{
					{"title": "Tides explained", "url": "https://example.com/tides", "content": "The moon."},
					{"title": "", "url": "https://example.com/2", "content": ""},
				},
			})
		}))
		defer server.Close()

		ws := NewWebSearch("key", WithSearchBaseURL(server.URL))
		result, err := ws.Invoke(context.Background(), map[string]any{"query": "tides", "max_results": float64(3)})
		require.NoError(t, err)

		assert.Equal(t, "key", received.APIKey)
		assert.Equal(t, "tides", received.Query)
		assert.Equal(t, 3, received.MaxResults)
		assert.Equal(t, "basic", received.SearchDepth)

		assert.Contains(t, result, "1. **Tides explained**\n   URL: https://example.com/tides\n   The moon.")
		assert.Contains(t, result, "2. **No title**")
		assert.Contains(t, result, "No content available")
	})

	t.Run("no results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		}))
		defer server.Close()

		ws := NewWebSearch("key", WithSearchBaseURL(server.URL))
		result, err := ws.Invoke(context.Background(), map[string]any{"query": "nothing"})
		require.NoError(t, err)
		assert.Equal(t, "No results found for: nothing", result)
	})

	t.Run("api failure becomes inline error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		ws := NewWebSearch("key", WithSearchBaseURL(server.URL))
		result, err := ws.Invoke(context.Background(), map[string]any{"query": "tides"})
		require.NoError(t, err)
		assert.Equal(t, "[Web Search Error] search API returned status 502", result)
	})

	t.Run("missing api key", func(t *testing.T) {
		ws := NewWebSearch("")
		result, err := ws.Invoke(context.Background(), map[string]any{"query": "tides"})
		require.NoError(t, err)
		assert.Equal(t, "[Web Search Error] TAVILY_API_KEY is not configured.", result)
	})

	t.Run("missing query", func(t *testing.T) {
		ws := NewWebSearch("key")
		result, err := ws.Invoke(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "[Web Search Error] Missing 'query' argument.", result)
	})
}
