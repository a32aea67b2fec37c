package chat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/chat"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
)

func newChatRouter(agent *chat.Agent) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chat.NewHandler(agent).RegisterRoutes(r.Group("/api/chat"))
	return r
}

func TestChatRejectsBlankQuestion(t *testing.T) {
	router := newChatRouter(&chat.Agent{Retriever: fakeRetriever{}, Generator: &fakeGenerator{}})

	for _, body := range []string{`{"question": ""}`, `{"question": "   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	router := newChatRouter(&chat.Agent{Retriever: fakeRetriever{}, Generator: &fakeGenerator{}})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatReturnsAnswerPayload(t *testing.T) {
	docs := []documents.Document{contentDoc("a", "refund-policy.txt", "refunds within 30 days")}
	agent := &chat.Agent{
		Retriever: fakeRetriever{docs: docs},
		Generator: &fakeGenerator{result: chat.GeneratedAnswer{
			Answer:           "30 days",
			CitedDocumentIDs: []string{"a"},
		}},
	}
	router := newChatRouter(agent)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question": "how long do refunds take?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Answer          string   `json:"answer"`
		CitedDocuments  []string `json:"cited_documents"`
		DocumentDetails []struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
			FileType string `json:"file_type"`
		} `json:"document_details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Answer != "30 days" {
		t.Fatalf("unexpected answer: %q", payload.Answer)
	}
	if len(payload.CitedDocuments) != 1 || payload.CitedDocuments[0] != "a" {
		t.Fatalf("unexpected citations: %v", payload.CitedDocuments)
	}
	if len(payload.DocumentDetails) != 1 || payload.DocumentDetails[0].FileType != "txt" {
		t.Fatalf("unexpected details: %v", payload.DocumentDetails)
	}
}

func TestChatHealth(t *testing.T) {
	router := newChatRouter(&chat.Agent{Retriever: fakeRetriever{}, Generator: &fakeGenerator{}})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "healthy") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}
