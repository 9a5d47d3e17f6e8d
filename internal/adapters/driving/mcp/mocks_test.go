package mcp

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
)

// mockRouter is a mock implementation of driving.QueryRouter.
type mockRouter struct {
	results    []domain.ScoredDocument
	generation uint64
	stale      bool
	err        error
	last       domain.Query
}

func (m *mockRouter) Route(_ context.Context, q domain.Query) (domain.RouteResult, error) {
	m.last = q
	if m.err != nil {
		return domain.RouteResult{}, m.err
	}
	return domain.RouteResult{Results: m.results, Generation: m.generation, Stale: m.stale}, nil
}

// mockCorpus is a mock implementation of driving.CorpusService.
type mockCorpus struct {
	status    domain.Status
	docs      []domain.Document
	reloadErr error
	docsErr   error
	reloads   int
	triggers  int
}

func (m *mockCorpus) Reload(_ context.Context) error {
	m.reloads++
	return m.reloadErr
}

func (m *mockCorpus) TriggerReload() {
	m.triggers++
}

func (m *mockCorpus) Status() domain.Status {
	return m.status
}

func (m *mockCorpus) Document(_ context.Context, id string) (*domain.Document, error) {
	if m.status.Generation == 0 {
		return nil, domain.ErrIndexNotReady
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCorpus) Documents(_ context.Context, _ domain.Filters) ([]domain.Document, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	if m.status.Generation == 0 {
		return nil, domain.ErrIndexNotReady
	}
	return m.docs, nil
}

func (m *mockCorpus) Warnings() []domain.Warning {
	return nil
}

var (
	_ driving.QueryRouter   = (*mockRouter)(nil)
	_ driving.CorpusService = (*mockCorpus)(nil)
)

func readyCorpus() *mockCorpus {
	return &mockCorpus{
		status: domain.Status{State: domain.StateReady, Generation: 3, Documents: 1},
		docs: []domain.Document{{
			ID:       "M-PM-006",
			Title:    "Risk Register",
			Domain:   "PM",
			Skill:    "faion-pm-agent",
			Category: "risk-management",
			Tags:     []string{"register", "risk"},
			Body:     "# Risk Register\n\nTrack every risk.\n",
		}},
	}
}

func newTestServer(router *mockRouter, corpus *mockCorpus) (*Server, error) {
	return NewServer(&Ports{Router: router, Corpus: corpus})
}
