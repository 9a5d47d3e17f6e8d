// Package mcp provides an MCP (Model Context Protocol) server adapter for
// skillroute. Agents call the route tool to find the methodology documents
// relevant to a task and read them through document resources.
package mcp

import "errors"

// ErrMissingRouter is returned when the query router is not provided.
var ErrMissingRouter = errors.New("mcp: query router is required")

// ErrMissingCorpus is returned when the corpus service is not provided.
var ErrMissingCorpus = errors.New("mcp: corpus service is required")
