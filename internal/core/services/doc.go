// Package services implements the driving port interfaces.
//
// CorpusService owns the corpus lifecycle: it loads files through a
// CorpusSource, validates and deduplicates documents, builds the index
// and publishes it atomically. RouterService answers queries against
// whatever index is published at the time of the call. Scheduler and
// WatchLoop trigger rebuilds; SettingsService resolves configuration.
//
// Services depend only on the domain and port packages.
package services
