package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/metrics"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/telemetry"
)

// MaxResults caps every retrieval result set.
const MaxResults = 5

const filenameMatchWeight = 2

// Searcher is the slice of the documents repo the retriever needs.
type Searcher interface {
	SearchContent(ctx context.Context, ftsQuery, question string, limit int) ([]documents.Document, error)
	ListWithContent(ctx context.Context) ([]documents.Document, error)
}

// Retriever selects the documents relevant to a question. The primary
// strategy is the store's full-text search; when that errors it degrades to a
// deterministic keyword scorer, and when even that fails it returns an empty
// set. Callers never see an error: "no documents" is a valid, answerable
// state.
type Retriever struct {
	Repo Searcher
}

// FindRelevant returns at most MaxResults documents with non-blank content,
// most relevant first.
func (r *Retriever) FindRelevant(ctx context.Context, question string) []documents.Document {
	results, err := r.Repo.SearchContent(ctx, ftsQuery(question), question, MaxResults)
	if err != nil {
		telemetry.Warn("retrieval.primary_failed", map[string]any{
			"error": err.Error(),
		})
		metrics.IncRetrievalFallback()
		return r.fallback(ctx, question)
	}

	// Drop documents without extracted text (e.g. images); they matched on
	// filename but cannot contribute to answer generation.
	relevant := make([]documents.Document, 0, len(results))
	for _, doc := range results {
		if doc.HasContent() {
			relevant = append(relevant, doc)
		}
	}
	return relevant
}

// fallback scores every stored document by keyword occurrence. Filename
// matches weigh more than body matches.
func (r *Retriever) fallback(ctx context.Context, question string) []documents.Document {
	docs, err := r.Repo.ListWithContent(ctx)
	if err != nil {
		telemetry.Warn("retrieval.fallback_failed", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	keywords := strings.Fields(strings.ToLower(question))

	type scored struct {
		doc   documents.Document
		score int
	}
	var matches []scored
	for _, doc := range docs {
		if !doc.HasContent() {
			continue
		}
		if score := Score(doc, keywords); score > 0 {
			matches = append(matches, scored{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]documents.Document, 0, MaxResults)
	for _, m := range matches {
		if len(out) == MaxResults {
			break
		}
		out = append(out, m.doc)
	}
	return out
}

// Score computes the fallback relevance of a document for the given
// lowercased keywords: occurrences in the body count once each, keywords
// present in the filename count filenameMatchWeight.
func Score(doc documents.Document, keywords []string) int {
	if doc.Content == nil {
		return 0
	}
	contentLower := strings.ToLower(*doc.Content)
	filenameLower := strings.ToLower(doc.Filename)

	score := 0
	for _, kw := range keywords {
		score += strings.Count(contentLower, kw)
		if strings.Contains(filenameLower, kw) {
			score += filenameMatchWeight
		}
	}
	return score
}

// ftsQuery lowercases the question and joins its tokens with the logical-OR
// operator understood by the store's full-text search.
func ftsQuery(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " | ")
}
