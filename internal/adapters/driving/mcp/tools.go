package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// defaultLimit applies when the route tool is called without a limit.
const defaultLimit = 10

// RouteInput is the input schema for the route tool.
type RouteInput struct {
	Text     string   `json:"text,omitempty" jsonschema:"free-text description of the task"`
	Domain   string   `json:"domain,omitempty" jsonschema:"domain code or alias, e.g. PM, DevOps, ML"`
	Skill    string   `json:"skill,omitempty" jsonschema:"owning skill, e.g. faion-pm-agent"`
	Category string   `json:"category,omitempty" jsonschema:"document category"`
	Tags     []string `json:"tags,omitempty" jsonschema:"tags that must all be present"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	Offset   int      `json:"offset,omitempty" jsonschema:"number of results to skip"`
}

// RouteOutput is the output schema for the route tool.
type RouteOutput struct {
	Results    []RouteResult `json:"results"`
	Count      int           `json:"count"`
	Stale      bool          `json:"stale"`
	Generation uint64        `json:"generation"`
}

// RouteResult is a single routed document.
type RouteResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Domain   string   `json:"domain,omitempty"`
	Skill    string   `json:"skill,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
	Excerpt  string   `json:"excerpt,omitempty"`
	URI      string   `json:"uri"`
}

// ReloadInput is the input schema for the reload tool.
type ReloadInput struct {
	Wait bool `json:"wait,omitempty" jsonschema:"block until the rebuild finishes"`
}

// StatusOutput is the output schema for the status and reload tools.
type StatusOutput struct {
	State      string `json:"state"`
	Generation uint64 `json:"generation"`
	Documents  int    `json:"documents"`
	Shadowed   int    `json:"shadowed"`
	IndexHash  string `json:"index_hash,omitempty"`
	BuiltAt    string `json:"built_at,omitempty"`
	LastError  string `json:"last_error,omitempty"`
	Warnings   int    `json:"warnings"`
	Stale      bool   `json:"stale"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "route",
		Description: "Find the methodology documents relevant to a task, ranked by relevance",
	}, s.handleRoute)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reload",
		Description: "Rebuild the document index from the corpus directory",
	}, s.handleReload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the index state, generation and document count",
	}, s.handleStatus)
}

func (s *Server) handleRoute(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RouteInput,
) (*mcp.CallToolResult, RouteOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	res, err := s.ports.Router.Route(ctx, domain.Query{
		Text: input.Text,
		Filters: domain.Filters{
			Domain:   input.Domain,
			Skill:    input.Skill,
			Category: input.Category,
			Tags:     input.Tags,
		},
		Limit:  limit,
		Offset: input.Offset,
	})
	if errors.Is(err, domain.ErrIndexNotReady) {
		return nil, RouteOutput{}, fmt.Errorf("the index is still loading, retry shortly: %w", err)
	}
	if err != nil {
		return nil, RouteOutput{}, err
	}

	results := res.Results
	output := RouteOutput{
		Results:    make([]RouteResult, len(results)),
		Count:      len(results),
		Stale:      res.Stale,
		Generation: res.Generation,
	}
	for i := range results {
		doc := results[i].Document
		output.Results[i] = RouteResult{
			ID:       doc.ID,
			Title:    doc.Title,
			Domain:   doc.Domain,
			Skill:    doc.Skill,
			Category: doc.Category,
			Tags:     doc.Tags,
			Score:    results[i].Score,
			Excerpt:  results[i].Excerpt,
			URI:      documentURI(doc.ID),
		}
	}
	return nil, output, nil
}

func (s *Server) handleReload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReloadInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if !input.Wait {
		s.ports.Corpus.TriggerReload()
		return nil, toStatusOutput(s.ports.Corpus.Status()), nil
	}
	if err := s.ports.Corpus.Reload(ctx); err != nil {
		return nil, StatusOutput{}, fmt.Errorf("reload: %w", err)
	}
	return nil, toStatusOutput(s.ports.Corpus.Status()), nil
}

func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatusOutput, error) {
	return nil, toStatusOutput(s.ports.Corpus.Status()), nil
}

func toStatusOutput(st domain.Status) StatusOutput {
	out := StatusOutput{
		State:      st.State.String(),
		Generation: st.Generation,
		Documents:  st.Documents,
		Shadowed:   st.Shadowed,
		IndexHash:  st.IndexHash,
		LastError:  st.LastError,
		Warnings:   st.Warnings,
		Stale:      st.Stale,
	}
	if !st.BuiltAt.IsZero() {
		out.BuiltAt = st.BuiltAt.UTC().Format(time.RFC3339)
	}
	return out
}
