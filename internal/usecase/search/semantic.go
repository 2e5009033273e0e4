package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
	"github.com/lumenote/searchd/internal/domain/unit"
)

// semanticHit is one document's aggregated vector-index evidence.
type semanticHit struct {
	similarity float64
	bestChunk  string
}

// semanticSearch runs the vector retrieval stage: embed the normalized
// query, pull nearest chunks, aggregate per document, and fetch the parent
// documents. A failed or empty embedding skips the stage without error:
// semantic retrieval must never take the search down.
func (s *Service) semanticSearch(
	ctx context.Context, info query.Info, filters domain.Filters,
) ([]*domain.Candidate, error) {
	embResult, err := s.embed.Embed(ctx, info.Normalized)
	if err != nil || len(embResult.Embedding) == 0 {
		if err != nil {
			s.logger.Warn("Embedding unavailable, skipping semantic stage", zap.Error(err))
		}
		return nil, nil
	}

	chunks, err := s.vectors.NearestNeighbors(ctx, embResult.Embedding, s.semanticTopK)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbors: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	hits := aggregateChunks(chunks)

	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	docs, err := s.docs.FindByIDs(ctx, ids, filters)
	if err != nil {
		return nil, fmt.Errorf("fetch semantic documents: %w", err)
	}

	candidates := make([]*domain.Candidate, 0, len(docs))
	for _, doc := range docs {
		hit := hits[doc.ID]
		c := &domain.Candidate{
			Document:      doc,
			SemanticMatch: true,
			Similarity:    hit.similarity,
			Unit:          unit.Resolve(doc.Unit, doc.Title),
			Snippet:       hit.bestChunk,
			Score:         semanticScore(hit.similarity),
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// aggregateChunks groups chunks by parent document and computes a weighted
// average of (1 - distance), with exponential decay favoring the best-ranked
// chunk. Chunks arrive best-first from the index.
func aggregateChunks(chunks []domain.Chunk) map[string]semanticHit {
	type agg struct {
		weightedSum float64
		weightTotal float64
		bestChunk   string
		rank        int
	}
	byDoc := make(map[string]*agg)

	for _, chunk := range chunks {
		a, ok := byDoc[chunk.DocumentID]
		if !ok {
			a = &agg{bestChunk: chunk.Text}
			byDoc[chunk.DocumentID] = a
		}
		w := math.Pow(chunkDecay, float64(a.rank))
		a.rank++
		a.weightedSum += w * (1 - chunk.Distance)
		a.weightTotal += w
	}

	hits := make(map[string]semanticHit, len(byDoc))
	for id, a := range byDoc {
		sim := 0.0
		if a.weightTotal > 0 {
			sim = a.weightedSum / a.weightTotal
		}
		hits[id] = semanticHit{similarity: clamp01(sim), bestChunk: a.bestChunk}
	}
	return hits
}

// mergeSemantic folds the semantic candidates into the keyword candidate
// map. Existing entries are updated, never replaced: the keyword signals
// already accumulated must survive.
func mergeSemantic(
	candidates map[string]*domain.Candidate,
	order *[]string,
	semantic []*domain.Candidate,
) {
	for _, sc := range semantic {
		existing, ok := candidates[sc.Document.ID]
		if !ok {
			candidates[sc.Document.ID] = sc
			*order = append(*order, sc.Document.ID)
			continue
		}

		existing.SemanticMatch = true
		existing.Similarity = sc.Similarity
		existing.Score += semanticScore(sc.Similarity)
		// A strong semantic hit carries the more relevant snippet.
		if sc.Similarity > snippetReplaceThreshold && sc.Snippet != "" {
			existing.Snippet = sc.Snippet
		}
	}
}

// semanticScore converts a similarity into its score contribution. The
// sub-linear exponent keeps middling similarities competitive without
// letting near-1.0 hits run away.
func semanticScore(similarity float64) float64 {
	if similarity <= 0 {
		return 0
	}
	return math.Pow(similarity, semanticExponent) * semanticWeight
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
