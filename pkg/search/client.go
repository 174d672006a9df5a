package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is one search hit in the narrow shape the core consumes.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Service is the web-search collaborator contract.
type Service interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

const (
	defaultEndpoint = "https://api.tavily.com/search"
	maxResults      = 3
	snippetLimit    = 200
)

// TavilyClient calls the Tavily search API.
type TavilyClient struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

var _ Service = &TavilyClient{}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		APIKey:   apiKey,
		Endpoint: defaultEndpoint,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tavilySearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(tavilySearchRequest{
		APIKey:     c.APIKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp tavilySearchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	results := make([]Result, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, Result{Title: r.Title, Snippet: r.Content})
	}
	return results, nil
}

// FormatResults renders hits as the bullet list that gets injected into the
// conversation as a system note. Snippets are truncated to keep the context
// payload small.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found"
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		snippet := r.Snippet
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit]
		}
		b.WriteString(fmt.Sprintf("- %s: %s...", r.Title, snippet))
	}
	return b.String()
}
