package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/councilos/councilos/internal/tools"
)

// DocumentStore persists ingested document chunks and serves keyword search
// for the document_search tool. It implements tools.ChunkStore.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a document store on the given pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// UpsertChunks replaces the stored chunks of every source present in the
// batch, in one transaction, so re-uploading a file never leaves stale
// pages behind. Returns the number of chunks written.
func (s *DocumentStore) UpsertChunks(ctx context.Context, chunks []tools.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sources := map[string]bool{}
	for _, chunk := range chunks {
		if !sources[chunk.Source] {
			sources[chunk.Source] = true
			_, err = tx.Exec(ctx, `DELETE FROM document_chunks WHERE source = $1`, chunk.Source)
			if err != nil {
				return 0, fmt.Errorf("failed to clear existing chunks: %w", err)
			}
		}
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(
			`INSERT INTO document_chunks (source, page, content) VALUES ($1, $2, $3)`,
			chunk.Source, chunk.Page, chunk.Text,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert chunk: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush chunk batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(chunks), nil
}

// SearchChunks runs a case-insensitive keyword match over stored chunks and
// returns up to limit hits in source and page order.
func (s *DocumentStore) SearchChunks(ctx context.Context, query string, limit int) ([]tools.Chunk, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.pool.Query(ctx, `
		SELECT source, page, content
		FROM document_chunks
		WHERE content ILIKE '%' || $1 || '%'
		ORDER BY source, page
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []tools.Chunk
	for rows.Next() {
		var chunk tools.Chunk
		if err := rows.Scan(&chunk.Source, &chunk.Page, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	return chunks, nil
}

// CountChunks reports how many chunks are stored across all sources.
func (s *DocumentStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
