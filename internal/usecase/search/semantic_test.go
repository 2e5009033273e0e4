package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
)

func TestAggregateChunks_DecayWeightedAverage(t *testing.T) {
	chunks := []domain.Chunk{
		{DocumentID: "doc-1", Text: "best chunk", Distance: 0.1},
		{DocumentID: "doc-1", Text: "second chunk", Distance: 0.5},
	}

	hits := aggregateChunks(chunks)
	hit, ok := hits["doc-1"]
	if !ok {
		t.Fatal("expected an aggregated hit for doc-1")
	}
	// (1.0*0.9 + 0.7*0.5) / (1.0 + 0.7)
	want := (0.9 + 0.7*0.5) / 1.7
	if math.Abs(hit.similarity-want) > 1e-9 {
		t.Errorf("expected similarity %f, got %f", want, hit.similarity)
	}
	if hit.bestChunk != "best chunk" {
		t.Errorf("best chunk must be the first seen, got %q", hit.bestChunk)
	}
}

func TestAggregateChunks_SimilarityClamped(t *testing.T) {
	hits := aggregateChunks([]domain.Chunk{
		{DocumentID: "doc-1", Text: "x", Distance: 1.8}, // cosine distance past 1
	})
	if hits["doc-1"].similarity != 0 {
		t.Errorf("negative similarity must clamp to 0, got %f", hits["doc-1"].similarity)
	}
}

func TestSemanticSearch_EmbedErrorSkipsStage(t *testing.T) {
	vectors := &mockVectors{}
	svc := newTestService(&mockDocs{}, vectors, &mockEmbedder{err: errors.New("quota")})

	candidates, err := svc.semanticSearch(context.Background(), query.Preprocess("heaps"), domain.Filters{})
	if err != nil {
		t.Fatalf("embedding failure must not error the stage: %v", err)
	}
	if candidates != nil {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
	if vectors.calls != 0 {
		t.Error("vector index must not be queried after an embedding failure")
	}
}

func TestSemanticSearch_EmptyEmbeddingSkipsStage(t *testing.T) {
	vectors := &mockVectors{}
	svc := newTestService(&mockDocs{}, vectors, &mockEmbedder{vec: nil})

	candidates, err := svc.semanticSearch(context.Background(), query.Preprocess("heaps"), domain.Filters{})
	if err != nil || candidates != nil {
		t.Fatalf("empty embedding must skip silently, got %v / %d candidates", err, len(candidates))
	}
	if vectors.calls != 0 {
		t.Error("vector index must not be queried with an empty embedding")
	}
}

func TestSemanticSearch_IndexErrorSurfaces(t *testing.T) {
	vectors := &mockVectors{err: errors.New("index down")}
	svc := newTestService(&mockDocs{}, vectors, &mockEmbedder{vec: []float32{0.1}})

	_, err := svc.semanticSearch(context.Background(), query.Preprocess("heaps"), domain.Filters{})
	if err == nil {
		t.Fatal("a vector index failure must surface to the caller")
	}
}

func TestMergeSemantic_UpdatesExistingCandidate(t *testing.T) {
	existing := &domain.Candidate{
		Document:     domain.Document{ID: "doc-1"},
		KeywordMatch: true,
		MatchCount:   4,
		Snippet:      "lexical snippet",
		Score:        30,
	}
	candidates := map[string]*domain.Candidate{"doc-1": existing}
	order := []string{"doc-1"}

	incoming := &domain.Candidate{
		Document:      domain.Document{ID: "doc-1"},
		SemanticMatch: true,
		Similarity:    0.6,
		Snippet:       "semantic snippet",
		Score:         semanticScore(0.6),
	}
	mergeSemantic(candidates, &order, []*domain.Candidate{incoming})

	if len(order) != 1 {
		t.Fatalf("merge must not duplicate entries, got order %v", order)
	}
	got := candidates["doc-1"]
	if got != existing {
		t.Fatal("merge must update the existing candidate, not replace it")
	}
	if !got.KeywordMatch || !got.SemanticMatch {
		t.Error("both stage flags must be set after the merge")
	}
	if got.MatchCount != 4 {
		t.Errorf("lexical signals must survive the merge, matchCount=%d", got.MatchCount)
	}
	if got.Score != 30+semanticScore(0.6) {
		t.Errorf("scores must accumulate, got %f", got.Score)
	}
	// 0.6 is below the replacement threshold.
	if got.Snippet != "lexical snippet" {
		t.Errorf("weak semantic hit must not replace the snippet, got %q", got.Snippet)
	}
}

func TestMergeSemantic_StrongHitReplacesSnippet(t *testing.T) {
	existing := &domain.Candidate{
		Document:     domain.Document{ID: "doc-1"},
		KeywordMatch: true,
		Snippet:      "lexical snippet",
	}
	candidates := map[string]*domain.Candidate{"doc-1": existing}
	order := []string{"doc-1"}

	incoming := &domain.Candidate{
		Document:   domain.Document{ID: "doc-1"},
		Similarity: 0.95,
		Snippet:    "semantic snippet",
	}
	mergeSemantic(candidates, &order, []*domain.Candidate{incoming})

	if existing.Snippet != "semantic snippet" {
		t.Errorf("strong semantic hit must replace the snippet, got %q", existing.Snippet)
	}
}

func TestMergeSemantic_NewCandidateAppended(t *testing.T) {
	candidates := map[string]*domain.Candidate{}
	order := []string{}

	incoming := &domain.Candidate{
		Document:      domain.Document{ID: "doc-9"},
		SemanticMatch: true,
	}
	mergeSemantic(candidates, &order, []*domain.Candidate{incoming})

	if len(order) != 1 || order[0] != "doc-9" {
		t.Fatalf("semantic-only candidate must join the set, order=%v", order)
	}
}

func TestSemanticScore(t *testing.T) {
	if semanticScore(0) != 0 {
		t.Error("zero similarity must contribute nothing")
	}
	if semanticScore(-0.5) != 0 {
		t.Error("negative similarity must contribute nothing")
	}
	want := math.Pow(1.0, semanticExponent) * semanticWeight
	if semanticScore(1.0) != want {
		t.Errorf("expected %f at similarity 1.0, got %f", want, semanticScore(1.0))
	}
}
