package retrieval_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/retrieval"
)

type fakeRepo struct {
	searchResults []documents.Document
	searchErr     error
	listResults   []documents.Document
	listErr       error
}

func (f *fakeRepo) SearchContent(ctx context.Context, ftsQuery, question string, limit int) ([]documents.Document, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if limit > 0 && len(f.searchResults) > limit {
		return f.searchResults[:limit], nil
	}
	return f.searchResults, nil
}

func (f *fakeRepo) ListWithContent(ctx context.Context) ([]documents.Document, error) {
	return f.listResults, f.listErr
}

func doc(id, filename, content string) documents.Document {
	d := documents.Document{
		ID:         id,
		Filename:   filename,
		FileType:   documents.FileTypeText,
		UploadDate: time.Now().UTC(),
	}
	if content != "" {
		d.Content = &content
	}
	return d
}

func TestFindRelevantFiltersBlankContent(t *testing.T) {
	blank := "   "
	withBlank := doc("1", "empty.txt", "")
	withBlank.Content = &blank

	repo := &fakeRepo{searchResults: []documents.Document{
		doc("2", "policy.txt", "refunds take five days"),
		withBlank,
		doc("3", "scan.png", ""),
	}}
	r := &retrieval.Retriever{Repo: repo}

	got := r.FindRelevant(context.Background(), "refund")
	if len(got) != 1 {
		t.Fatalf("expected 1 document, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Fatalf("expected document 2, got %s", got[0].ID)
	}
}

func TestFindRelevantCapsResults(t *testing.T) {
	repo := documents.NewMemoryRepo()
	for i := 0; i < 8; i++ {
		content := "the refund policy applies"
		if err := repo.Create(context.Background(), documents.Document{
			ID:         fmt.Sprintf("doc-%d", i),
			Filename:   fmt.Sprintf("doc-%d.txt", i),
			FileType:   documents.FileTypeText,
			Content:    &content,
			UploadDate: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	r := &retrieval.Retriever{Repo: repo}

	got := r.FindRelevant(context.Background(), "refund policy")
	if len(got) != retrieval.MaxResults {
		t.Fatalf("expected %d documents, got %d", retrieval.MaxResults, len(got))
	}
}

func TestFindRelevantFallsBackOnPrimaryError(t *testing.T) {
	repo := &fakeRepo{
		searchErr: errors.New("fts unavailable"),
		listResults: []documents.Document{
			doc("1", "refund-policy.txt", "our refund policy: refunds within 30 days"),
			doc("2", "shipping.txt", "orders ship within two days"),
		},
	}
	r := &retrieval.Retriever{Repo: repo}

	got := r.FindRelevant(context.Background(), "refund policy")
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].ID != "1" {
		t.Fatalf("expected the refund document, got %s", got[0].ID)
	}
}

func TestFindRelevantEmptyWhenFallbackFails(t *testing.T) {
	repo := &fakeRepo{
		searchErr: errors.New("fts unavailable"),
		listErr:   errors.New("store unavailable"),
	}
	r := &retrieval.Retriever{Repo: repo}

	if got := r.FindRelevant(context.Background(), "anything"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d documents", len(got))
	}
}

func TestScoreWeighsFilenameMatches(t *testing.T) {
	d := doc("1", "refund-policy.txt", "refunds are processed weekly; see the policy section")
	keywords := strings.Fields("refund policy")

	// "refund" appears once in the body and in the filename (1+2), "policy"
	// appears once in the body and in the filename (1+2).
	if got := retrieval.Score(d, keywords); got != 6 {
		t.Fatalf("expected score 6, got %d", got)
	}
}

func TestScoreZeroWithoutContent(t *testing.T) {
	d := documents.Document{ID: "1", Filename: "refund.txt"}
	if got := retrieval.Score(d, []string{"refund"}); got != 0 {
		t.Fatalf("expected score 0, got %d", got)
	}
}

func TestFallbackOrdersByScore(t *testing.T) {
	repo := &fakeRepo{
		searchErr: errors.New("fts unavailable"),
		listResults: []documents.Document{
			doc("low", "notes.txt", "the refund was mentioned once"),
			doc("high", "refund-faq.txt", "refund refund refund"),
		},
	}
	r := &retrieval.Retriever{Repo: repo}

	got := r.FindRelevant(context.Background(), "refund")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != "high" || got[1].ID != "low" {
		t.Fatalf("expected high before low, got %s then %s", got[0].ID, got[1].ID)
	}
}
