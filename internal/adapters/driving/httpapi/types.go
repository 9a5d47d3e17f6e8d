package httpapi

import (
	"time"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes.
const (
	codeIndexNotReady = "index_not_ready"
	codeInvalidInput  = "invalid_input"
	codeNotFound      = "not_found"
	codeRateLimited   = "rate_limited"
	codeTimeout       = "timeout"
	codeInternal      = "internal"
)

// QueryResponse is the body of GET /query.
type QueryResponse struct {
	Results    []QueryResult `json:"results"`
	Count      int           `json:"count"`
	Stale      bool          `json:"stale"`
	Generation uint64        `json:"generation"`
}

// QueryResult is one routed document.
type QueryResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Domain   string   `json:"domain"`
	Skill    string   `json:"skill"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Score    float64  `json:"score"`
	Excerpt  string   `json:"excerpt"`
}

// DocumentSummary describes a document without its body.
type DocumentSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Domain     string   `json:"domain"`
	Skill      string   `json:"skill"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	SourcePath string   `json:"source_path"`
	Ordinal    int      `json:"ordinal"`
}

// DocumentResponse is the body of GET /documents/{id}.
type DocumentResponse struct {
	DocumentSummary
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DocumentsResponse is the body of GET /documents.
type DocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
	Count     int               `json:"count"`
}

// ReloadResponse is the body of POST /reload.
type ReloadResponse struct {
	State string `json:"state"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	State      string            `json:"state"`
	Generation uint64            `json:"generation"`
	Documents  int               `json:"documents"`
	Shadowed   int               `json:"shadowed"`
	IndexHash  string            `json:"index_hash,omitempty"`
	BuiltAt    *time.Time        `json:"built_at,omitempty"`
	LastError  string            `json:"last_error,omitempty"`
	Warnings   int               `json:"warnings"`
	Stale      bool              `json:"stale"`
	Details    []WarningResponse `json:"warning_details,omitempty"`
}

// WarningResponse is one build warning.
type WarningResponse struct {
	Code       string `json:"code"`
	SourcePath string `json:"source_path,omitempty"`
	Ordinal    int    `json:"ordinal"`
	DocumentID string `json:"document_id,omitempty"`
	Message    string `json:"message"`
}

func toSummary(doc domain.Document) DocumentSummary {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentSummary{
		ID:         doc.ID,
		Title:      doc.Title,
		Domain:     doc.Domain,
		Skill:      doc.Skill,
		Category:   doc.Category,
		Tags:       tags,
		SourcePath: doc.SourcePath,
		Ordinal:    doc.Ordinal,
	}
}

func toStatusResponse(st domain.Status) StatusResponse {
	resp := StatusResponse{
		State:      string(st.State),
		Generation: st.Generation,
		Documents:  st.Documents,
		Shadowed:   st.Shadowed,
		IndexHash:  st.IndexHash,
		LastError:  st.LastError,
		Warnings:   st.Warnings,
		Stale:      st.Stale,
	}
	if !st.BuiltAt.IsZero() {
		builtAt := st.BuiltAt.UTC()
		resp.BuiltAt = &builtAt
	}
	return resp
}
