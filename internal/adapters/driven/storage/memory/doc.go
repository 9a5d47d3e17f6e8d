// Package memory provides in-memory implementations of the driven storage
// ports. Nothing is persisted; the stores back tests and the
// --ephemeral mode of the CLI.
package memory
