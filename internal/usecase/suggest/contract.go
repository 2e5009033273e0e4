package suggest

import (
	"context"

	"github.com/lumenote/searchd/internal/domain"
)

// DocumentStore supplies the titles and subjects suggestions are mined from.
type DocumentStore interface {
	FindBySubstring(
		ctx context.Context, pattern string, filters domain.Filters, limit int,
	) ([]domain.Document, error)

	FindByIDs(
		ctx context.Context, ids []string, filters domain.Filters,
	) ([]domain.Document, error)
}

// VectorIndex answers nearest-neighbor queries over document chunks.
type VectorIndex interface {
	NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]domain.Chunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// QueryLog samples recently executed queries for spell correction.
type QueryLog interface {
	SampleRecent(ctx context.Context, limit int) ([]string, error)
}
