package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// chunkWords is the chunk size in words; chunkOverlap words are shared
	// between adjacent chunks so passages are not cut mid-thought.
	chunkWords   = 100
	chunkOverlap = 20
)

// IngestPDF parses a PDF, splits its page text into overlapping word chunks
// and upserts them into the chunk store. Returns the number of chunks
// ingested.
func IngestPDF(ctx context.Context, store ChunkStore, source string, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse pdf %q: %w", source, err)
	}

	var chunks []Chunk
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		for _, chunk := range SplitWords(text, chunkWords, chunkOverlap) {
			chunks = append(chunks, Chunk{Source: source, Page: pageIndex, Text: chunk})
		}
	}

	if len(chunks) == 0 {
		return 0, nil
	}
	return store.UpsertChunks(ctx, chunks)
}

// SplitWords splits text into chunks of at most size words, with overlap
// words shared between consecutive chunks.
func SplitWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= overlap {
		size = overlap + 1
	}

	var chunks []string
	for i := 0; i < len(words); i += size - overlap {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
