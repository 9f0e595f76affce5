package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTavilyBaseURL = "https://api.tavily.com"
	defaultMaxResults    = 5
	defaultHTTPTimeout   = 30 * time.Second
)

// WebSearch queries the Tavily Search API for current information.
type WebSearch struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
}

// WebSearchOption configures a WebSearch tool.
type WebSearchOption func(*WebSearch)

// WithSearchBaseURL overrides the Tavily endpoint, mainly for tests.
func WithSearchBaseURL(url string) WebSearchOption {
	return func(w *WebSearch) { w.baseURL = url }
}

// WithSearchHTTPClient overrides the HTTP client.
func WithSearchHTTPClient(c *http.Client) WebSearchOption {
	return func(w *WebSearch) { w.httpClient = c }
}

// NewWebSearch builds the web_search tool. The API key may be empty; the
// tool then reports the missing configuration to the model at call time.
func NewWebSearch(apiKey string, opts ...WebSearchOption) *WebSearch {
	w := &WebSearch{
		baseURL:    defaultTavilyBaseURL,
		apiKey:     apiKey,
		maxResults: defaultMaxResults,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Description() string {
	return "Search the web for current information on a topic. Returns ranked results with titles, URLs and snippets."
}

func (w *WebSearch) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query string.",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results to return.",
			},
		},
		"required": []string{"query"},
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Invoke performs the search. Configuration and transport problems are
// returned as the result string, not as an error.
func (w *WebSearch) Invoke(ctx context.Context, args map[string]any) (string, error) {
	if w.apiKey == "" {
		return "[Web Search Error] TAVILY_API_KEY is not configured.", nil
	}

	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "[Web Search Error] Missing 'query' argument.", nil
	}

	maxResults := w.maxResults
	if n, ok := args["max_results"].(float64); ok && n > 0 {
		maxResults = int(n)
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      w.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("[Web Search Error] %v", err), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("[Web Search Error] search API returned status %d", resp.StatusCode), nil
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Sprintf("[Web Search Error] %v", err), nil
	}

	if len(parsed.Results) == 0 {
		return fmt.Sprintf("No results found for: %s", query), nil
	}

	var formatted []string
	for i, r := range parsed.Results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		content := r.Content
		if content == "" {
			content = "No content available"
		}
		formatted = append(formatted, fmt.Sprintf("%d. **%s**\n   URL: %s\n   %s", i+1, title, r.URL, content))
	}
	return strings.Join(formatted, "\n\n"), nil
}
