package chat

// AskRequest is the body of a chat question.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse mirrors Result on the wire.
type AskResponse struct {
	Answer          string           `json:"answer"`
	CitedDocuments  []string         `json:"cited_documents"`
	DocumentDetails []DocumentDetail `json:"document_details"`
}

func toResponse(r Result) AskResponse {
	return AskResponse{
		Answer:          r.Answer,
		CitedDocuments:  r.CitedDocuments,
		DocumentDetails: r.DocumentDetails,
	}
}
