// Package docstore is the HTTP client for the document service, the owner
// of all study documents. Only the read surface the search engine needs is
// exposed: case-insensitive substring search, bulk fetch by id, and single
// reads.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lumenote/searchd/internal/domain"
)

// Client talks to the document service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Config holds document service connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a document service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// document is the wire shape the document service returns.
type document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Unit        int       `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
}

// FindBySubstring returns documents whose title, body, or subject name
// contains pattern (case-insensitive OR across the three fields), narrowed
// by filters, capped at limit.
func (c *Client) FindBySubstring(
	ctx context.Context, pattern string, filters domain.Filters, limit int,
) ([]domain.Document, error) {
	q := url.Values{}
	q.Set("contains", pattern)
	q.Set("fields", "title,body,subject")
	q.Set("limit", strconv.Itoa(limit))
	applyFilters(q, filters)

	var docs []document
	if err := c.getJSON(ctx, "/v1/documents/search?"+q.Encode(), &docs); err != nil {
		return nil, fmt.Errorf("find by substring: %w", err)
	}
	return toDomain(docs), nil
}

// FindByIDs returns the documents with the given ids, narrowed by filters.
// Missing ids are silently omitted.
func (c *Client) FindByIDs(
	ctx context.Context, ids []string, filters domain.Filters,
) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	applyFilters(q, filters)

	var docs []document
	if err := c.getJSON(ctx, "/v1/documents?"+q.Encode(), &docs); err != nil {
		return nil, fmt.Errorf("find by ids: %w", err)
	}
	return toDomain(docs), nil
}

// GetByID returns a single document or domain.ErrDocumentNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (domain.Document, error) {
	var doc document
	err := c.getJSON(ctx, "/v1/documents/"+url.PathEscape(id), &doc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// HealthCheck probes the service's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("document service health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("document service health: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDocStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrDocumentNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", domain.ErrDocStoreUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func applyFilters(q url.Values, filters domain.Filters) {
	if filters.SubjectID != "" {
		q.Set("subject_id", filters.SubjectID)
	}
	if filters.DocumentID != "" {
		q.Set("document_id", filters.DocumentID)
	}
}

func (d document) toDomain() domain.Document {
	return domain.Document{
		ID:          d.ID,
		Title:       d.Title,
		Body:        d.Body,
		SubjectID:   d.SubjectID,
		SubjectName: d.SubjectName,
		Unit:        d.Unit,
		CreatedAt:   d.CreatedAt,
	}
}

func toDomain(docs []document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}
