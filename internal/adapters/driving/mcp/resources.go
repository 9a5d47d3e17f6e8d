package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for skillroute resources.
	uriScheme = "skillroute://"

	statusURI       = uriScheme + "status"
	documentsURI    = uriScheme + "documents"
	documentsPrefix = documentsURI + "/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "status",
		Description: "Index state, generation and document count",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Every indexed document with its metadata",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsPrefix + "{documentId}",
		Name:        "document",
		Description: "Full markdown text of one document",
		MIMEType:    "text/markdown",
	}, s.handleDocumentResource)
}

func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(toStatusOutput(s.ports.Corpus.Status()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Corpus.Documents(ctx, domain.Filters{})
	if errors.Is(err, domain.ErrIndexNotReady) {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID       string   `json:"id"`
		Title    string   `json:"title"`
		Domain   string   `json:"domain,omitempty"`
		Skill    string   `json:"skill,omitempty"`
		Category string   `json:"category,omitempty"`
		Tags     []string `json:"tags,omitempty"`
		URI      string   `json:"uri"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:       docs[i].ID,
			Title:    docs[i].Title,
			Domain:   docs[i].Domain,
			Skill:    docs[i].Skill,
			Category: docs[i].Category,
			Tags:     docs[i].Tags,
			URI:      documentURI(docs[i].ID),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Corpus.Document(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrIndexNotReady) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc.Body,
		}},
	}, nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

func documentURI(id string) string {
	return documentsPrefix + id
}

// extractDocumentID extracts the id from skillroute://documents/{documentId}.
func extractDocumentID(uri string) string {
	id, ok := strings.CutPrefix(uri, documentsPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
