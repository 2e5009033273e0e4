package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/domain"
)

// --- Mocks ---

type mockDocs struct {
	substringDocs  []domain.Document
	substringErr   error
	byIDsDocs      []domain.Document
	substringCalls int
	byIDsCalls     int
}

func (m *mockDocs) FindBySubstring(
	_ context.Context, _ string, _ domain.Filters, _ int,
) ([]domain.Document, error) {
	m.substringCalls++
	return m.substringDocs, m.substringErr
}

func (m *mockDocs) FindByIDs(
	_ context.Context, _ []string, _ domain.Filters,
) ([]domain.Document, error) {
	m.byIDsCalls++
	return m.byIDsDocs, nil
}

type mockVectors struct {
	chunks []domain.Chunk
	calls  int
}

func (m *mockVectors) NearestNeighbors(
	_ context.Context, _ []float32, _ int,
) ([]domain.Chunk, error) {
	m.calls++
	return m.chunks, nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func newTestService(docs *mockDocs, vectors *mockVectors, embed *mockEmbedder) *Service {
	return New(docs, vectors, embed, zap.NewNop())
}

// --- Tests ---

func TestSuggest_ShortInput_NoCollaboratorCalls(t *testing.T) {
	docs := &mockDocs{}
	vectors := &mockVectors{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(docs, vectors, embed)

	for _, q := range []string{"", "a", " x "} {
		suggestions, err := svc.Suggest(context.Background(), q, 10)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", q, err)
		}
		if suggestions != nil {
			t.Errorf("query %q: expected nil suggestions, got %v", q, suggestions)
		}
	}
	if docs.substringCalls != 0 || vectors.calls != 0 || embed.calls != 0 {
		t.Error("short input must not touch collaborators")
	}
}

func TestSuggest_TitlePrefixOutranksSubstring(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{
			{ID: "1", Title: "Advanced Data Structures"},
			{ID: "2", Title: "Data Structures Overview"},
		},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	suggestions, err := svc.Suggest(context.Background(), "data", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", suggestions)
	}
	if suggestions[0] != "Data Structures Overview" {
		t.Errorf("prefix match must come first, got %q", suggestions[0])
	}
}

func TestSuggest_SubjectNamesIncluded(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{
			{ID: "1", Title: "Databases Intro", SubjectName: "Database Systems"},
		},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	suggestions, err := svc.Suggest(context.Background(), "data", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range suggestions {
		if s == "Database Systems" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the subject name among suggestions, got %v", suggestions)
	}
	// Title prefix (100) over subject prefix (60).
	if suggestions[0] != "Databases Intro" {
		t.Errorf("title source must outrank subject source, got %q", suggestions[0])
	}
}

func TestSuggest_DedupeKeepsBestScore(t *testing.T) {
	// The same text arrives as a title substring and a subject prefix;
	// it must appear once, at its higher score.
	docs := &mockDocs{
		substringDocs: []domain.Document{
			{ID: "1", Title: "Algebra", SubjectName: "Linear Algebra"},
			{ID: "2", Title: "Linear Algebra"},
		},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	suggestions, err := svc.Suggest(context.Background(), "linear", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, s := range suggestions {
		if s == "Linear Algebra" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one 'Linear Algebra', got %v", suggestions)
	}
	if suggestions[0] != "Linear Algebra" {
		t.Errorf("deduped entry must rank at its best score, got %q", suggestions[0])
	}
}

func TestSuggest_TieBreaksOnText(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{
			{ID: "1", Title: "Sorting Networks"},
			{ID: "2", Title: "Sorting Algorithms"},
		},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	suggestions, err := svc.Suggest(context.Background(), "sorting", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 ||
		suggestions[0] != "Sorting Algorithms" || suggestions[1] != "Sorting Networks" {
		t.Errorf("equal scores must order by text, got %v", suggestions)
	}
}

func TestSuggest_SemanticSkippedForShortQueries(t *testing.T) {
	vectors := &mockVectors{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(&mockDocs{}, vectors, embed)

	if _, err := svc.Suggest(context.Background(), "abc", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.calls != 0 || vectors.calls != 0 {
		t.Error("queries under four characters must skip the semantic source")
	}
}

func TestSuggest_SemanticTitlesScoreLowest(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{{ID: "1", Title: "Gradient Descent"}},
		byIDsDocs:     []domain.Document{{ID: "2", Title: "Backpropagation"}},
	}
	vectors := &mockVectors{
		chunks: []domain.Chunk{{DocumentID: "2", Distance: 0.2}},
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(docs, vectors, embed)

	suggestions, err := svc.Suggest(context.Background(), "gradient", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected both sources, got %v", suggestions)
	}
	if suggestions[0] != "Gradient Descent" || suggestions[1] != "Backpropagation" {
		t.Errorf("semantic titles must rank below lexical ones, got %v", suggestions)
	}
}

func TestSuggest_EmbedFailureOnlyDropsSemanticSource(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{{ID: "1", Title: "Compilers"}},
	}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := newTestService(docs, &mockVectors{}, embed)

	suggestions, err := svc.Suggest(context.Background(), "compilers", 10)
	if err != nil {
		t.Fatalf("semantic failure must not error the request: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0] != "Compilers" {
		t.Errorf("lexical suggestions must survive, got %v", suggestions)
	}
}

func TestSuggest_StoreErrorSurfaces(t *testing.T) {
	docs := &mockDocs{substringErr: errors.New("store down")}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	if _, err := svc.Suggest(context.Background(), "anything", 10); err == nil {
		t.Fatal("a document store failure must surface")
	}
}

func TestSuggest_LimitTruncates(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{
			{ID: "1", Title: "Calculus I"},
			{ID: "2", Title: "Calculus II"},
			{ID: "3", Title: "Calculus III"},
		},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	suggestions, err := svc.Suggest(context.Background(), "calculus", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Errorf("expected 2 suggestions, got %v", suggestions)
	}
}

func TestSuggest_CachedSecondCall(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{{ID: "1", Title: "Operating Systems"}},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{}).
		WithCache(cache.New[[]string]("suggestion", time.Minute, 16, nil))

	if _, err := svc.Suggest(context.Background(), "operating", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Suggest(context.Background(), "operating", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs.substringCalls != 1 {
		t.Errorf("second call must hit the cache, got %d lookups", docs.substringCalls)
	}
}
