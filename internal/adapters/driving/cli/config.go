package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	RunE:  runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show effective settings",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. List values are comma-separated.

Keys:
  fetch.workers           concurrent downloads (1-32)
  fetch.base_dir          directory holding one folder per source
  fetch.max_file_size_mb  skip larger files (1-50)
  fetch.retries           retries for transient errors (0-10)
  fetch.file_patterns     glob patterns replacing the extension allow-list
  fetch.exclude_dirs      directory names never descended into
  process.workers         concurrent extractions (1-32)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if pipeline == nil || pipeline.ConfigStore == nil {
			return errNotConfigured
		}
		cmd.Println(pipeline.ConfigStore.Path())
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the GitHub token",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// settingValues returns every setting keyed by its config key.
func settingValues(s domain.Settings) map[string]string {
	return map[string]string{
		"fetch.workers":          strconv.Itoa(s.Fetch.Workers),
		"fetch.base_dir":         s.Fetch.BaseDir,
		"fetch.max_file_size_mb": strconv.Itoa(s.Fetch.MaxFileSizeMB),
		"fetch.retries":          strconv.Itoa(s.Fetch.Retries),
		"fetch.file_patterns":    strings.Join(s.Fetch.FilePatterns, ","),
		"fetch.exclude_dirs":     strings.Join(s.Fetch.ExcludeDirs, ","),
		"process.workers":        strconv.Itoa(s.Process.Workers),
	}
}

func currentSettings() (domain.Settings, error) {
	if pipeline == nil || pipeline.SettingsService == nil {
		return domain.Settings{}, errNotConfigured
	}
	return pipeline.SettingsService.Get()
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	values := settingValues(settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%-24s %s\n", k, values[k])
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	v, ok := settingValues(settings)[args[0]]
	if !ok {
		return fmt.Errorf("unknown setting %q", args[0])
	}
	cmd.Println(v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if pipeline == nil || pipeline.ConfigStore == nil {
		return errNotConfigured
	}
	settings, err := currentSettings()
	if errors.Is(err, errNotConfigured) {
		return err
	}
	if err != nil {
		// An invalid stored value must still be replaceable.
		settings = domain.DefaultSettings()
	}

	key, raw := args[0], strings.TrimSpace(args[1])
	value, err := applySetting(&settings, key, raw)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := pipeline.ConfigStore.Set(key, value); err != nil {
		return fmt.Errorf("save setting: %w", err)
	}
	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if pipeline == nil || pipeline.TokenProvider == nil || pipeline.CredentialValidator == nil {
		return errNotConfigured
	}

	if !pipeline.TokenProvider.IsAuthenticated() {
		if _, err := pipeline.TokenProvider.GetToken(cmd.Context()); err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		cmd.Println("No GitHub token configured: requests are unauthenticated")
		return nil
	}

	if err := pipeline.CredentialValidator.ValidateCredentials(cmd.Context()); err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}
	cmd.Println("GitHub token is valid")
	return nil
}

// applySetting parses raw for key, applies it to s and returns the value
// to store.
func applySetting(s *domain.Settings, key, raw string) (any, error) {
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
		}
		return n, nil
	}

	switch key {
	case "fetch.workers", "fetch.max_file_size_mb", "fetch.retries", "process.workers":
		n, err := parseInt()
		if err != nil {
			return nil, err
		}
		switch key {
		case "fetch.workers":
			s.Fetch.Workers = n
		case "fetch.max_file_size_mb":
			s.Fetch.MaxFileSizeMB = n
		case "fetch.retries":
			s.Fetch.Retries = n
		case "process.workers":
			s.Process.Workers = n
		}
		return int64(n), nil
	case "fetch.base_dir":
		s.Fetch.BaseDir = raw
		return raw, nil
	case "fetch.file_patterns", "fetch.exclude_dirs":
		list := splitList(raw)
		if key == "fetch.file_patterns" {
			s.Fetch.FilePatterns = list
		} else {
			s.Fetch.ExcludeDirs = list
		}
		return list, nil
	case "":
		return nil, errors.New("empty setting key")
	default:
		return nil, fmt.Errorf("unknown setting %q", key)
	}
}

func splitList(raw string) []string {
	list := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
