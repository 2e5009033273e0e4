package search

import (
	"context"
	"strings"
	"testing"

	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
)

func TestScoreLexical_ExactTitle(t *testing.T) {
	info := query.Preprocess("binary search")
	doc := domain.Document{Title: "Binary Search", Body: "how binary search works"}

	score, _ := scoreLexical(doc, info)
	if score < baseScore+exactFieldBonus {
		t.Errorf("exact title match must carry the exact-field bonus, got %f", score)
	}
}

func TestScoreLexical_PhraseBeatsScatteredTerms(t *testing.T) {
	info := query.Preprocess("binary search tree")

	phrase := domain.Document{
		Title: "Lecture 4",
		Body:  "today we cover the binary search tree and its rotations " + strings.Repeat("x ", 50),
	}
	scattered := domain.Document{
		Title: "Lecture 5",
		Body:  "a search over any binary relation forms a tree of calls " + strings.Repeat("x ", 50),
	}

	phraseScore, _ := scoreLexical(phrase, info)
	scatteredScore, _ := scoreLexical(scattered, info)
	if phraseScore <= scatteredScore {
		t.Errorf("contiguous phrase (%f) must outscore scattered terms (%f)",
			phraseScore, scatteredScore)
	}
}

func TestScoreLexical_EmptyBody(t *testing.T) {
	info := query.Preprocess("graphs")
	doc := domain.Document{Title: "Graphs", Body: ""}

	score, matchCount := scoreLexical(doc, info)
	if score <= 0 {
		t.Errorf("title-only document must still score, got %f", score)
	}
	if matchCount != 1 {
		t.Errorf("expected 1 title term match, got %d", matchCount)
	}
}

func TestScoreLexical_SubjectContribution(t *testing.T) {
	info := query.Preprocess("physics")

	withSubject := domain.Document{Title: "Momentum", SubjectName: "Physics"}
	without := domain.Document{Title: "Momentum"}

	a, _ := scoreLexical(withSubject, info)
	b, _ := scoreLexical(without, info)
	if a <= b {
		t.Errorf("subject match must add score: with=%f without=%f", a, b)
	}
}

func TestScoreLexical_LengthDiscountedTermFrequency(t *testing.T) {
	info := query.Preprocess("entropy")

	dense := domain.Document{
		Title: "Notes A",
		Body:  strings.Repeat("entropy ", 10),
	}
	padded := domain.Document{
		Title: "Notes B",
		Body:  strings.Repeat("entropy ", 10) + strings.Repeat("filler ", 5000),
	}

	denseScore, _ := scoreLexical(dense, info)
	paddedScore, _ := scoreLexical(padded, info)
	if denseScore <= paddedScore {
		t.Errorf("same occurrences in a longer body must score lower: dense=%f padded=%f",
			denseScore, paddedScore)
	}
}

func TestKeywordSearch_BuildsCandidates(t *testing.T) {
	docs := &mockDocs{
		substringDocs: []domain.Document{{
			ID:    "doc-1",
			Title: "Unit 3: Sorting",
			Body:  "quicksort and mergesort are the classic sorting algorithms " + strings.Repeat("y ", 60),
		}},
	}
	svc := newTestService(docs, &mockVectors{}, &mockEmbedder{})

	candidates, err := svc.keywordSearch(context.Background(), query.Preprocess("sorting"), domain.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if !c.KeywordMatch || c.SemanticMatch {
		t.Error("keyword stage must set only the keyword flag")
	}
	if c.Unit != 3 {
		t.Errorf("expected unit 3 from the title, got %d", c.Unit)
	}
	if !strings.Contains(c.Snippet, "**sorting**") {
		t.Errorf("snippet must highlight the matched term, got %q", c.Snippet)
	}
	if docs.lastPattern != "sorting" {
		t.Errorf("expected raw query as pattern, got %q", docs.lastPattern)
	}
}
