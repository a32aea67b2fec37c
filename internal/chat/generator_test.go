package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/chat"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/llm"
)

type fakeLLM struct {
	answer   string
	err      error
	messages []llm.Message
	opts     llm.Options
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.messages = messages
	f.opts = opts
	return f.answer, f.err
}

func contentDoc(id, filename, content string) documents.Document {
	return documents.Document{
		ID:       id,
		Filename: filename,
		FileType: documents.FileTypeText,
		Content:  &content,
	}
}

func TestGenerateCitesEveryDocument(t *testing.T) {
	client := &fakeLLM{answer: "Refunds take 30 days [refund-policy.txt]."}
	g := &chat.Generator{LLM: client}

	docs := []documents.Document{
		contentDoc("a", "refund-policy.txt", "refunds within 30 days"),
		contentDoc("b", "shipping.txt", "orders ship in two days"),
	}
	got, err := g.Generate(context.Background(), "how long do refunds take?", docs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got.Answer != client.answer {
		t.Fatalf("unexpected answer: %q", got.Answer)
	}
	if len(got.CitedDocumentIDs) != 2 || got.CitedDocumentIDs[0] != "a" || got.CitedDocumentIDs[1] != "b" {
		t.Fatalf("expected both documents cited, got %v", got.CitedDocumentIDs)
	}
}

func TestGeneratePromptShape(t *testing.T) {
	client := &fakeLLM{answer: "ok"}
	g := &chat.Generator{LLM: client}

	docs := []documents.Document{contentDoc("a", "policy.txt", "refunds within 30 days")}
	if _, err := g.Generate(context.Background(), "how long?", docs); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(client.messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(client.messages))
	}
	if client.messages[0].Role != "system" {
		t.Fatalf("expected system message first, got %q", client.messages[0].Role)
	}
	user := client.messages[1]
	if user.Role != "user" {
		t.Fatalf("expected user message, got %q", user.Role)
	}
	if !strings.Contains(user.Content, "Document: policy.txt") {
		t.Fatalf("prompt missing document fragment:\n%s", user.Content)
	}
	if !strings.Contains(user.Content, "Question: how long?") {
		t.Fatalf("prompt missing question:\n%s", user.Content)
	}
	if client.opts.MaxTokens != 500 {
		t.Fatalf("expected max tokens 500, got %d", client.opts.MaxTokens)
	}
	if client.opts.Temperature != 0.1 {
		t.Fatalf("expected temperature 0.1, got %v", client.opts.Temperature)
	}
}

func TestGenerateTruncatesLongContent(t *testing.T) {
	client := &fakeLLM{answer: "ok"}
	g := &chat.Generator{LLM: client}

	long := strings.Repeat("a", 1500)
	docs := []documents.Document{contentDoc("a", "big.txt", long)}
	if _, err := g.Generate(context.Background(), "question", docs); err != nil {
		t.Fatalf("generate: %v", err)
	}

	user := client.messages[1].Content
	if strings.Contains(user, strings.Repeat("a", 1001)) {
		t.Fatalf("content not truncated to 1000 characters")
	}
	if !strings.Contains(user, strings.Repeat("a", 1000)+"...") {
		t.Fatalf("truncated content missing ellipsis")
	}
}

func TestGenerateSkipsBlankDocuments(t *testing.T) {
	client := &fakeLLM{answer: "ok"}
	g := &chat.Generator{LLM: client}

	blank := "   "
	docs := []documents.Document{
		{ID: "a", Filename: "blank.txt", FileType: documents.FileTypeText, Content: &blank},
		contentDoc("b", "real.txt", "actual content"),
	}
	got, err := g.Generate(context.Background(), "question", docs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	user := client.messages[1].Content
	if strings.Contains(user, "Document: blank.txt") {
		t.Fatalf("blank document should not reach the prompt:\n%s", user)
	}
	// Every retrieved document is still cited, context or not.
	if len(got.CitedDocumentIDs) != 2 {
		t.Fatalf("expected 2 citations, got %v", got.CitedDocumentIDs)
	}
}
