// Package embcache decorates the embedding provider with the in-process
// embedding cache, so repeated queries never pay for a second provider call
// within the TTL window.
package embcache

import (
	"context"
	"fmt"

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/domain"
)

// CachedEmbedder caches embeddings keyed by the exact input text (the engine
// always embeds the normalized query, so the key is the normalized query).
type CachedEmbedder struct {
	inner domain.Embedder
	cache *cache.Cache[[]float32]
}

// New creates a caching decorator.
func New(inner domain.Embedder, c *cache.Cache[[]float32]) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if vec, ok := c.cache.Get(text); ok {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	if len(result.Embedding) > 0 {
		c.cache.Set(text, result.Embedding)
	}
	return result, nil
}
