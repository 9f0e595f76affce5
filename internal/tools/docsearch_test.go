package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilos/councilos/internal/models"
)

// memoryChunkStore is an in-memory ChunkStore for tool tests.
type memoryChunkStore struct {
	chunks []Chunk
	err    error
}

func (m *memoryChunkStore) UpsertChunks(_ context.Context, chunks []Chunk) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.chunks = append(m.chunks, chunks...)
	return len(chunks), nil
}

func (m *memoryChunkStore) SearchChunks(_ context.Context, query string, limit int) ([]Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	var hits []Chunk
	for _, c := range m.chunks {
		if strings.Contains(strings.ToLower(c.Text), strings.ToLower(query)) {
			hits = append(hits, c)
			if len(hits) == limit {
				break
			}
		}
	}
	return hits, nil
}

func (m *memoryChunkStore) CountChunks(context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.chunks), nil
}

func TestDocSearch_Invoke(t *testing.T) {
	store := &memoryChunkStore{chunks: []Chunk{
		{Source: "report.pdf", Page: 1, Text: "Quarterly revenue grew by twelve percent."},
		{Source: "report.pdf", Page: 3, Text: "Headcount stayed flat."},
	}}
	ds := NewDocSearch(store)

	t.Run("finds matching passages", func(t *testing.T) {
		result, err := ds.Invoke(context.Background(), map[string]any{"query": "revenue"})
		require.NoError(t, err)
		assert.Contains(t, result, "[Source: report.pdf, Page 1]")
		assert.Contains(t, result, "Quarterly revenue grew")
	})

	t.Run("no hits", func(t *testing.T) {
		result, err := ds.Invoke(context.Background(), map[string]any{"query": "dividends"})
		require.NoError(t, err)
		assert.Equal(t, "No relevant passages found for: dividends", result)
	})

	t.Run("empty store", func(t *testing.T) {
		empty := NewDocSearch(&memoryChunkStore{})
		result, err := empty.Invoke(context.Background(), map[string]any{"query": "anything"})
		require.NoError(t, err)
		assert.Equal(t, "[Document Search] No documents have been ingested yet.", result)
	})

	t.Run("missing query", func(t *testing.T) {
		result, err := ds.Invoke(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "[Document Search Error] Missing 'query' argument.", result)
	})

	t.Run("store failure is inline", func(t *testing.T) {
		broken := NewDocSearch(&memoryChunkStore{err: errors.New("connection reset")})
		result, err := broken.Invoke(context.Background(), map[string]any{"query": "revenue"})
		require.NoError(t, err)
		assert.Contains(t, result, "[Document Search Error]")
		assert.Contains(t, result, "connection reset")
	})
}

func TestResolver(t *testing.T) {
	web := NewWebSearch("key")
	doc := NewDocSearch(&memoryChunkStore{})
	r := NewResolver(web, doc)

	t.Run("nothing enabled", func(t *testing.T) {
		assert.Empty(t, r.Resolve(models.AgentTools{}))
	})

	t.Run("both enabled", func(t *testing.T) {
		resolved := r.Resolve(models.AgentTools{WebSearch: true, PDFReader: true})
		require.Len(t, resolved, 2)
		assert.Equal(t, "web_search", resolved[0].Name())
		assert.Equal(t, "document_search", resolved[1].Name())
	})

	t.Run("unconfigured backend is skipped", func(t *testing.T) {
		partial := NewResolver(nil, doc)
		resolved := partial.Resolve(models.AgentTools{WebSearch: true, PDFReader: true})
		require.Len(t, resolved, 1)
		assert.Equal(t, "document_search", resolved[0].Name())
	})
}

func TestSplitWords(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, SplitWords("   ", 100, 20))
	})

	t.Run("short text fits one chunk", func(t *testing.T) {
		chunks := SplitWords("one two three", 100, 20)
		require.Len(t, chunks, 1)
		assert.Equal(t, "one two three", chunks[0])
	})

	t.Run("chunks overlap", func(t *testing.T) {
		words := make([]string, 25)
		for i := range words {
			words[i] = string(rune('a' + i))
		}
		text := strings.Join(words, " ")

		chunks := SplitWords(text, 10, 3)
		require.Len(t, chunks, 4)
		// Each chunk starts size-overlap words after the previous one.
		assert.True(t, strings.HasPrefix(chunks[0], "a "))
		assert.True(t, strings.HasPrefix(chunks[1], "h "))
		assert.True(t, strings.HasPrefix(chunks[2], "o "))

		first := strings.Fields(chunks[0])
		second := strings.Fields(chunks[1])
		assert.Equal(t, first[len(first)-3:], second[:3])
	})

	t.Run("degenerate overlap", func(t *testing.T) {
		chunks := SplitWords("a b c d e", 2, 5)
		assert.NotEmpty(t, chunks)
	})
}
