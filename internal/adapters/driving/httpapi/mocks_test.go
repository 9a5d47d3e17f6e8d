package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
)

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

type mockCorpus struct {
	status    domain.Status
	docs      []domain.Document
	warnings  []domain.Warning
	reloadErr error
	reloads   int
	triggers  int
	filters   domain.Filters
}

func (m *mockCorpus) Reload(_ context.Context) error {
	m.reloads++
	return m.reloadErr
}

func (m *mockCorpus) TriggerReload() {
	m.triggers++
	m.status.State = domain.StateReloading
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

func (m *mockCorpus) Documents(_ context.Context, filters domain.Filters) ([]domain.Document, error) {
	m.filters = filters
	if m.status.Generation == 0 {
		return nil, domain.ErrIndexNotReady
	}
	return m.docs, nil
}

func (m *mockCorpus) Warnings() []domain.Warning {
	return m.warnings
}

type observation struct {
	route string
	code  int
}

type mockObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (m *mockObserver) ObserveHTTP(route string, code int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observation{route: route, code: code})
}

var (
	_ driving.QueryRouter   = (*mockRouter)(nil)
	_ driving.CorpusService = (*mockCorpus)(nil)
)

func riskDoc() domain.Document {
	return domain.Document{
		ID:         "M-PM-006",
		Title:      "Risk Register",
		Domain:     domain.DomainProjectManagement,
		Skill:      "risk-management",
		Category:   "planning",
		Tags:       []string{"risk"},
		Body:       "# Risk Register\n\nTrack every risk with an owner.",
		SourcePath: "pm/risk.md",
		Metadata:   map[string]string{"author": "pmo"},
	}
}

func readyCorpus() *mockCorpus {
	return &mockCorpus{
		status: domain.Status{
			State:      domain.StateReady,
			Generation: 2,
			Documents:  1,
			IndexHash:  "abc123",
			BuiltAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		docs: []domain.Document{riskDoc()},
	}
}
