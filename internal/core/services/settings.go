package services

import (
	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyFetchWorkers   = "fetch.workers"
	keyFetchBaseDir   = "fetch.base_dir"
	keyFetchMaxSizeMB = "fetch.max_file_size_mb"
	keyFetchRetries   = "fetch.retries"
	keyFetchPatterns  = "fetch.file_patterns"
	keyFetchExclude   = "fetch.exclude_dirs"
	keyProcessWorkers = "process.workers"
)

// SettingsService reads pipeline settings from a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
// A nil store yields the defaults.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Unset keys keep their defaults.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if s.configStore == nil {
		return settings, nil
	}

	settings.Fetch.Workers = s.getInt(keyFetchWorkers, settings.Fetch.Workers)
	settings.Fetch.BaseDir = s.getString(keyFetchBaseDir, settings.Fetch.BaseDir)
	settings.Fetch.MaxFileSizeMB = s.getInt(keyFetchMaxSizeMB, settings.Fetch.MaxFileSizeMB)
	settings.Fetch.Retries = s.getInt(keyFetchRetries, settings.Fetch.Retries)
	settings.Fetch.FilePatterns = s.getStrings(keyFetchPatterns, settings.Fetch.FilePatterns)
	settings.Fetch.ExcludeDirs = s.getStrings(keyFetchExclude, settings.Fetch.ExcludeDirs)
	settings.Process.Workers = s.getInt(keyProcessWorkers, settings.Process.Workers)

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getStrings(key string, def []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetStringSlice(key)
}
