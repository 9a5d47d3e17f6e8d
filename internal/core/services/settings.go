package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes environment overrides: server.rate_limit is read
// from SKILLROUTE_SERVER_RATE_LIMIT.
const EnvPrefix = "SKILLROUTE_"

// Config keys for settings storage.
const (
	KeyCorpusRoot          = "corpus.root"
	KeyCorpusSeparator     = "corpus.separator"
	KeyCorpusWorkers       = "corpus.workers"
	KeyServerAddr          = "server.addr"
	KeyServerRateLimit     = "server.rate_limit"
	KeyServerRateBurst     = "server.rate_burst"
	KeyWatchEnabled        = "watch.enabled"
	KeyWatchDebounceMS     = "watch.debounce_ms"
	KeySchedulerEnabled    = "scheduler.enabled"
	KeySchedulerReloadMins = "scheduler.reload_interval_minutes"
	KeySchedulerPruneMins  = "scheduler.prune_interval_minutes"
	KeyStoragePersist      = "storage.persist"
	KeyStorageDataDir      = "storage.data_dir"
	KeyStorageKeep         = "storage.keep_snapshots"

	// KeyDomainAliasPrefix prefixes vocabulary aliases,
	// e.g. vocabulary.domains.security = "SEC".
	KeyDomainAliasPrefix = "vocabulary.domains."
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
)

var settingKinds = map[string]settingKind{
	KeyCorpusRoot:          kindString,
	KeyCorpusSeparator:     kindString,
	KeyCorpusWorkers:       kindInt,
	KeyServerAddr:          kindString,
	KeyServerRateLimit:     kindFloat,
	KeyServerRateBurst:     kindInt,
	KeyWatchEnabled:        kindBool,
	KeyWatchDebounceMS:     kindInt,
	KeySchedulerEnabled:    kindBool,
	KeySchedulerReloadMins: kindInt,
	KeySchedulerPruneMins:  kindInt,
	KeyStoragePersist:      kindBool,
	KeyStorageDataDir:      kindString,
	KeyStorageKeep:         kindInt,
}

// SettingKeys returns every known setting key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService resolves application settings from the environment,
// the config store and the built-in defaults, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading overrides
// from the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Root:      s.getString(KeyCorpusRoot, d.Corpus.Root),
			Separator: s.getString(KeyCorpusSeparator, d.Corpus.Separator),
			Workers:   s.getPositiveInt(KeyCorpusWorkers, d.Corpus.Workers),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(KeyServerAddr, d.Server.Addr),
			RateLimit: s.getFloat(KeyServerRateLimit, d.Server.RateLimit),
			RateBurst: s.getPositiveInt(KeyServerRateBurst, d.Server.RateBurst),
		},
		Watch: domain.WatchSettings{
			Enabled: s.getBool(KeyWatchEnabled, d.Watch.Enabled),
			Debounce: time.Duration(s.getInt(KeyWatchDebounceMS,
				int(d.Watch.Debounce/time.Millisecond))) * time.Millisecond,
		},
		Scheduler: s.schedulerConfig(d.Scheduler),
		Storage: domain.StorageSettings{
			Persist:       s.getBool(KeyStoragePersist, d.Storage.Persist),
			DataDir:       s.getString(KeyStorageDataDir, d.Storage.DataDir),
			KeepSnapshots: s.getPositiveInt(KeyStorageKeep, d.Storage.KeepSnapshots),
		},
		Vocabulary: domain.VocabularySettings{
			DomainAliases: s.domainAliases(),
		},
	}

	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	if alias, ok := strings.CutPrefix(key, KeyDomainAliasPrefix); ok {
		code := strings.ToUpper(strings.TrimSpace(value))
		if alias == "" || code == "" {
			return fmt.Errorf("%w: alias and domain code are required", domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, code)
	}

	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	typed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// schedulerConfig overlays configured values onto the default scheduler
// configuration.
func (s *SettingsService) schedulerConfig(cfg domain.SchedulerConfig) domain.SchedulerConfig {
	cfg.Enabled = s.getBool(KeySchedulerEnabled, cfg.Enabled)

	intervals := map[string]string{
		domain.TaskIDCorpusReload:  KeySchedulerReloadMins,
		domain.TaskIDSnapshotPrune: KeySchedulerPruneMins,
	}
	for taskID, key := range intervals {
		task := cfg.TaskConfigs[taskID]
		mins := s.getInt(key, int(task.Interval/time.Minute))
		if mins > 0 {
			task.Interval = time.Duration(mins) * time.Minute
		} else {
			task.Enabled = false
		}
		cfg.TaskConfigs[taskID] = task
	}
	return cfg
}

func (s *SettingsService) domainAliases() map[string]string {
	aliases := map[string]string{}
	for _, key := range s.configStore.Keys(KeyDomainAliasPrefix) {
		if code := s.configStore.GetString(key); code != "" {
			aliases[strings.TrimPrefix(key, KeyDomainAliasPrefix)] = code
		}
	}
	return aliases
}

// Helper methods for reading config with environment overrides and
// defaults.

func (s *SettingsService) env(key string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	val, ok := s.lookupEnv(name)
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return strings.TrimSpace(val), true
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val, ok := s.env(key); ok {
		return val
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val, ok := s.env(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if n := s.getInt(key, defaultVal); n > 0 {
		return n
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val, ok := s.env(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if val, ok := s.env(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func parseSetting(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", value)
		}
		if f < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return b, nil
	default:
		return value, nil
	}
}
