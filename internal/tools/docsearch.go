package tools

import (
	"context"
	"fmt"
	"strings"
)

// Chunk is one searchable slice of an ingested document.
type Chunk struct {
	Source string
	Page   int
	Text   string
}

// ChunkStore persists and searches document chunks. The Postgres
// implementation lives in internal/store.
type ChunkStore interface {
	UpsertChunks(ctx context.Context, chunks []Chunk) (int, error)
	SearchChunks(ctx context.Context, query string, limit int) ([]Chunk, error)
	CountChunks(ctx context.Context) (int, error)
}

const defaultDocResults = 5

// DocSearch searches the chunks of previously uploaded PDF documents. It is
// bound to nodes with the pdfReader capability enabled.
type DocSearch struct {
	store ChunkStore
}

// NewDocSearch builds the document_search tool over a chunk store.
func NewDocSearch(store ChunkStore) *DocSearch {
	return &DocSearch{store: store}
}

func (d *DocSearch) Name() string { return "document_search" }

func (d *DocSearch) Description() string {
	return "Search the uploaded PDF documents for passages relevant to a query."
}

func (d *DocSearch) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query to find relevant document passages.",
			},
			"n_results": map[string]any{
				"type":        "integer",
				"description": "Number of passages to return.",
			},
		},
		"required": []string{"query"},
	}
}

// Invoke runs the search. Store failures become inline error strings.
func (d *DocSearch) Invoke(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "[Document Search Error] Missing 'query' argument.", nil
	}

	limit := defaultDocResults
	if n, ok := args["n_results"].(float64); ok && n > 0 {
		limit = int(n)
	}

	count, err := d.store.CountChunks(ctx)
	if err != nil {
		return fmt.Sprintf("[Document Search Error] %v", err), nil
	}
	if count == 0 {
		return "[Document Search] No documents have been ingested yet.", nil
	}

	chunks, err := d.store.SearchChunks(ctx, query, limit)
	if err != nil {
		return fmt.Sprintf("[Document Search Error] %v", err), nil
	}
	if len(chunks) == 0 {
		return fmt.Sprintf("No relevant passages found for: %s", query), nil
	}

	var formatted []string
	for i, c := range chunks {
		formatted = append(formatted, fmt.Sprintf("%d. [Source: %s, Page %d]\n   %s", i+1, c.Source, c.Page, c.Text))
	}
	return strings.Join(formatted, "\n\n"), nil
}
