package mcp

import (
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Router answers route queries.
	Router driving.QueryRouter

	// Corpus reports status, serves documents and triggers reloads.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Router == nil {
		return ErrMissingRouter
	}
	if p.Corpus == nil {
		return ErrMissingCorpus
	}
	return nil
}
