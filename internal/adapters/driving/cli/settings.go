package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Environment variables override the file: server.rate_limit is read from
SKILLROUTE_SERVER_RATE_LIMIT.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting by its dotted key.

Domain aliases use the vocabulary.domains prefix:
  skillroute settings set vocabulary.domains.security SEC`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, key := range services.SettingKeys() {
			cmd.Println(key)
		}
		cmd.Println(services.KeyDomainAliasPrefix + "<alias>")
	},
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Prompt for the corpus location, listen address and storage mode.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Root: %s\n", settings.Corpus.Root)
	if settings.Corpus.Separator != "" {
		cmd.Printf("  Separator: %s\n", settings.Corpus.Separator)
	} else {
		cmd.Printf("  Separator: (detected per file)\n")
	}
	cmd.Printf("  Workers: %d\n", settings.Corpus.Workers)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	if settings.Server.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", settings.Server.RateLimit, settings.Server.RateBurst)
	} else {
		cmd.Printf("  Rate limit: disabled\n")
	}
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Watch.Enabled))
	cmd.Printf("  Debounce: %s\n", settings.Watch.Debounce)
	cmd.Println()

	cmd.Println("[Scheduler]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Scheduler.Enabled))
	for _, id := range []string{domain.TaskIDCorpusReload, domain.TaskIDSnapshotPrune} {
		tc := settings.Scheduler.GetTaskConfig(id)
		cmd.Printf("  %s: every %s (%s)\n", id, tc.Interval, enabledLabel(tc.Enabled))
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Persist: %s\n", yesNo(settings.Storage.Persist))
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Printf("  Keep snapshots: %d\n", settings.Storage.KeepSnapshots)
	cmd.Println()

	cmd.Println("[Vocabulary]")
	if len(settings.Vocabulary.DomainAliases) == 0 {
		cmd.Println("  (built-in aliases only)")
	}
	aliases := make([]string, 0, len(settings.Vocabulary.DomainAliases))
	for alias := range settings.Vocabulary.DomainAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		cmd.Printf("  %s = %s\n", alias, settings.Vocabulary.DomainAliases[alias])
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := newSettingsService()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return settingsWizard(cmd, bufio.NewReader(cmd.InOrStdin()), svc, current)
}

func settingsWizard(cmd *cobra.Command, reader *bufio.Reader, svc *services.SettingsService, current *domain.AppSettings) error {
	cmd.Println("skillroute setup")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("Corpus root [%s]: ", current.Corpus.Root)
	root := readLine(reader)
	if root == "" {
		root = current.Corpus.Root
	}

	cmd.Printf("Listen address [%s]: ", current.Server.Addr)
	addr := readLine(reader)
	if addr == "" {
		addr = current.Server.Addr
	}

	defaultStorage := 1
	if current.Storage.Persist {
		defaultStorage = 2
	}
	cmd.Println("Snapshot storage:")
	cmd.Println("  1) memory (rebuild on every start)")
	cmd.Println("  2) sqlite (restore the last index on start)")
	cmd.Printf("Choice [%d]: ", defaultStorage)
	persist := parseChoice(readLine(reader), 2, defaultStorage) == 2

	cmd.Printf("Watch the corpus for changes? [%s]: ", yesNo(current.Watch.Enabled))
	watch := parseYesNo(readLine(reader), current.Watch.Enabled)

	updates := [][2]string{
		{services.KeyCorpusRoot, root},
		{services.KeyServerAddr, addr},
		{services.KeyStoragePersist, strconv.FormatBool(persist)},
		{services.KeyWatchEnabled, strconv.FormatBool(watch)},
	}
	for _, kv := range updates {
		if err := svc.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func enabledLabel(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
