package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit, err := intParam(params, "limit")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	offset, err := intParam(params, "offset")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := s.router.Route(r.Context(), domain.Query{
		Text:    params.Get("text"),
		Filters: filtersFrom(params),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := QueryResponse{
		Results:    make([]QueryResult, 0, len(res.Results)),
		Count:      len(res.Results),
		Stale:      res.Stale,
		Generation: res.Generation,
	}
	for _, hit := range res.Results {
		sum := toSummary(hit.Document)
		resp.Results = append(resp.Results, QueryResult{
			ID:       sum.ID,
			Title:    sum.Title,
			Domain:   sum.Domain,
			Skill:    sum.Skill,
			Category: sum.Category,
			Tags:     sum.Tags,
			Score:    hit.Score,
			Excerpt:  hit.Excerpt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "true" {
		if err := s.corpus.Reload(r.Context()); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ReloadResponse{State: string(s.corpus.Status().State)})
		return
	}

	s.corpus.TriggerReload()
	writeJSON(w, http.StatusAccepted, ReloadResponse{State: string(s.corpus.Status().State)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := toStatusResponse(s.corpus.Status())
	if r.URL.Query().Get("warnings") == "true" {
		for _, warn := range s.corpus.Warnings() {
			resp.Details = append(resp.Details, WarningResponse{
				Code:       string(warn.Code),
				SourcePath: warn.SourcePath,
				Ordinal:    warn.Ordinal,
				DocumentID: warn.DocumentID,
				Message:    warn.Message,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.corpus.Documents(r.Context(), filtersFrom(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := DocumentsResponse{
		Documents: make([]DocumentSummary, 0, len(docs)),
		Count:     len(docs),
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toSummary(doc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.corpus.Document(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		DocumentSummary: toSummary(*doc),
		Body:            doc.Body,
		Metadata:        doc.Metadata,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  string(s.corpus.Status().State),
	})
}

// handleReady answers 200 once an index has been published, even a stale one.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	st := s.corpus.Status()
	if st.Generation == 0 {
		writeServiceError(w, r, domain.ErrIndexNotReady)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "state": string(st.State)})
}

// filtersFrom reads domain, skill, category and tag. Tags may repeat or be
// comma separated.
func filtersFrom(params url.Values) domain.Filters {
	var tags []string
	for _, raw := range params["tag"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return domain.Filters{
		Domain:   params.Get("domain"),
		Skill:    params.Get("skill"),
		Category: params.Get("category"),
		Tags:     tags,
	}
}

func intParam(params url.Values, name string) (int, error) {
	raw := params.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return n, nil
}
