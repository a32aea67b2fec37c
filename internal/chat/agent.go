package chat

import (
	"context"
	"fmt"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
)

const noDocumentsAnswer = "I couldn't find any relevant documents to answer your question."

// DocumentFinder retrieves the documents most relevant to a question. An
// empty slice means nothing matched; retrieval never reports an error.
type DocumentFinder interface {
	FindRelevant(ctx context.Context, question string) []documents.Document
}

// AnswerGenerator turns a question plus supporting documents into an answer.
type AnswerGenerator interface {
	Generate(ctx context.Context, question string, docs []documents.Document) (GeneratedAnswer, error)
}

// Agent runs the question-answering pipeline: retrieve, then generate. When
// retrieval comes back empty the generator is never invoked and a fixed
// answer is returned instead.
type Agent struct {
	Retriever DocumentFinder
	Generator AnswerGenerator
}

// Result is the agent's answer together with the documents behind it.
type Result struct {
	Answer          string
	CitedDocuments  []string
	DocumentDetails []DocumentDetail
}

// DocumentDetail identifies a retrieved document without its content.
type DocumentDetail struct {
	ID       string             `json:"id"`
	Filename string             `json:"filename"`
	FileType documents.FileType `json:"file_type"`
}

// Answer resolves a question against the knowledge base.
func (a *Agent) Answer(ctx context.Context, question string) (Result, error) {
	docs := a.Retriever.FindRelevant(ctx, question)
	if len(docs) == 0 {
		return Result{
			Answer:          noDocumentsAnswer,
			CitedDocuments:  []string{},
			DocumentDetails: []DocumentDetail{},
		}, nil
	}

	generated, err := a.Generator.Generate(ctx, question, docs)
	if err != nil {
		return Result{}, fmt.Errorf("QA Agent error: %w", err)
	}

	details := make([]DocumentDetail, 0, len(docs))
	for _, doc := range docs {
		details = append(details, DocumentDetail{
			ID:       doc.ID,
			Filename: doc.Filename,
			FileType: doc.FileType,
		})
	}

	return Result{
		Answer:          generated.Answer,
		CitedDocuments:  generated.CitedDocumentIDs,
		DocumentDetails: details,
	}, nil
}
