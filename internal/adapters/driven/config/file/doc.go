// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.skillroute/config.toml. Keys are
// addressed in dot notation ("server.rate_limit") and written back as
// nested TOML tables.
package file
