package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/llm"
)

// contextCharBudget bounds how much of each document reaches the model. Only
// the head of a document is ever visible; there is no windowing.
const contextCharBudget = 1000

const (
	answerMaxTokens   = 500
	answerTemperature = 0.1
)

const systemPrompt = "You are a helpful assistant that answers questions based on provided documents. Keep your answers concise and always cite the documents you used."

const promptTemplate = `Based on the following documents, please answer the question. Keep your answer concise and cite the documents you used.

Documents:
%s

Question: %s

Please provide a short answer and list which documents you referenced.`

// GeneratedAnswer is the raw generator output. CitedDocumentIDs lists every
// document placed in context, whether or not the model actually used it:
// citation fidelity is approximate by design.
type GeneratedAnswer struct {
	Answer           string
	CitedDocumentIDs []string
	ContextLength    int
}

// Generator composes the prompt from retrieved documents and asks the hosted
// chat-completion model for a concise, cited answer.
type Generator struct {
	LLM llm.Client
}

// Generate produces an answer for the question given the retrieved documents.
// Transport and API failures propagate; there is no retry.
func (g *Generator) Generate(ctx context.Context, question string, docs []documents.Document) (GeneratedAnswer, error) {
	contextBlock := buildContext(docs)
	prompt := fmt.Sprintf(promptTemplate, contextBlock, question)

	answer, err := g.LLM.ChatCompletion(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}, llm.Options{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return GeneratedAnswer{}, fmt.Errorf("answer generation: %w", err)
	}

	cited := make([]string, 0, len(docs))
	for _, doc := range docs {
		cited = append(cited, doc.ID)
	}

	return GeneratedAnswer{
		Answer:           answer,
		CitedDocumentIDs: cited,
		ContextLength:    len(contextBlock),
	}, nil
}

// buildContext concatenates one fragment per document with non-empty content,
// truncated to the head of the document, fragments separated by a blank line.
func buildContext(docs []documents.Document) string {
	var parts []string
	for _, doc := range docs {
		if !doc.HasContent() {
			continue
		}
		parts = append(parts, fmt.Sprintf("Document: %s\nContent: %s...", doc.Filename, truncate(*doc.Content, contextCharBudget)))
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
