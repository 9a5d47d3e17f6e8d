package domain

import (
	"path/filepath"
	"time"
)

// CorpusSettings configures where and how the corpus is loaded.
type CorpusSettings struct {
	// Root is the corpus directory.
	Root string

	// Separator is the literal related-document separator.
	// Empty means the separator is detected per file.
	Separator string

	// Workers is the number of files loaded in parallel.
	Workers int
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the token bucket size.
	RateBurst int
}

// WatchSettings configures the corpus watcher.
type WatchSettings struct {
	// Enabled turns on filesystem watching.
	Enabled bool

	// Debounce is the quiet period before a change batch is emitted.
	Debounce time.Duration
}

// StorageSettings configures snapshot persistence.
type StorageSettings struct {
	// Persist enables the SQLite snapshot store.
	Persist bool

	// DataDir holds the database. Empty means ~/.skillroute/data.
	DataDir string

	// KeepSnapshots is how many snapshots the prune task keeps.
	KeepSnapshots int
}

// VocabularySettings extends the built-in domain vocabulary.
type VocabularySettings struct {
	// DomainAliases maps an alias (any casing) to a canonical domain code.
	DomainAliases map[string]string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus     CorpusSettings
	Server     ServerSettings
	Watch      WatchSettings
	Scheduler  SchedulerConfig
	Storage    StorageSettings
	Vocabulary VocabularySettings
}

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{
			Root:    ".",
			Workers: 4,
		},
		Server: ServerSettings{
			Addr:      ":8080",
			RateLimit: 50,
			RateBurst: 100,
		},
		Watch: WatchSettings{
			Enabled:  true,
			Debounce: 500 * time.Millisecond,
		},
		Scheduler: DefaultSchedulerConfig(),
		Storage: StorageSettings{
			Persist:       false,
			KeepSnapshots: 5,
		},
		Vocabulary: VocabularySettings{
			DomainAliases: map[string]string{},
		},
	}
}

// AbsRoot returns the corpus root as an absolute, cleaned path.
func (c CorpusSettings) AbsRoot() (string, error) {
	return filepath.Abs(filepath.Clean(c.Root))
}
