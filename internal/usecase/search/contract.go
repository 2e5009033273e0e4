package search

import (
	"context"

	"github.com/lumenote/searchd/internal/domain"
)

// DocumentStore is the read surface of the external document service.
type DocumentStore interface {
	FindBySubstring(
		ctx context.Context, pattern string, filters domain.Filters, limit int,
	) ([]domain.Document, error)

	FindByIDs(
		ctx context.Context, ids []string, filters domain.Filters,
	) ([]domain.Document, error)

	GetByID(ctx context.Context, id string) (domain.Document, error)
}

// VectorIndex answers nearest-neighbor queries over document chunks.
type VectorIndex interface {
	NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]domain.Chunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// QueryLog records executed queries for did-you-mean sampling.
type QueryLog interface {
	Record(ctx context.Context, query string) error
}

// Corrector produces a "did you mean" suggestion for a query that returned
// nothing. nil means no suggestion.
type Corrector interface {
	Correction(ctx context.Context, query string) (*string, error)
}

// ConsentStore answers whether a user opted into analytics sharing.
type ConsentStore interface {
	AnalyticsAllowed(ctx context.Context, userID string) bool
}

// AnalyticsSink persists search events.
type AnalyticsSink interface {
	RecordSearch(ctx context.Context, event domain.SearchEvent) error
}
