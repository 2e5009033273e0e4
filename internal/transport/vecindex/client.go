// Package vecindex is the HTTP client for the vector index service, which
// owns the document-chunk embeddings and answers nearest-neighbor queries.
package vecindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lumenote/searchd/internal/domain"
)

// Client talks to the vector index service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Config holds vector index connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a vector index client.
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

type knnRequest struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

type knnHit struct {
	DocumentID string  `json:"document_id"`
	ChunkText  string  `json:"chunk_text"`
	Distance   float64 `json:"distance"`
}

// NearestNeighbors returns the k chunks closest to the given embedding,
// best first.
func (c *Client) NearestNeighbors(
	ctx context.Context, embedding []float32, k int,
) ([]domain.Chunk, error) {
	body, err := json.Marshal(knnRequest{Vector: embedding, K: k})
	if err != nil {
		return nil, fmt.Errorf("marshal knn request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/v1/knn", bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrVectorIndexUnavailable, resp.StatusCode)
	}

	var hits []knnHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("decode knn response: %w", err)
	}

	chunks := make([]domain.Chunk, len(hits))
	for i, h := range hits {
		chunks[i] = domain.Chunk{
			DocumentID: h.DocumentID,
			Text:       h.ChunkText,
			Distance:   h.Distance,
		}
	}
	return chunks, nil
}

// HealthCheck probes the service's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vector index health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vector index health: status %d", resp.StatusCode)
	}
	return nil
}
