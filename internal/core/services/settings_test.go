package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocorpus/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

func TestSettingsService_Defaults(t *testing.T) {
	for name, svc := range map[string]*SettingsService{
		"nil store":   NewSettingsService(nil),
		"empty store": NewSettingsService(memory.NewConfigStore()),
	} {
		t.Run(name, func(t *testing.T) {
			settings, err := svc.Get()
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultSettings(), settings)
		})
	}
}

func TestSettingsService_Overrides(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("fetch.workers", 8))
	require.NoError(t, store.Set("fetch.base_dir", "/tmp/corpus"))
	require.NoError(t, store.Set("fetch.max_file_size_mb", int64(25)))
	require.NoError(t, store.Set("fetch.retries", 0))
	require.NoError(t, store.Set("fetch.file_patterns", []any{"*.md", "*.rst"}))
	require.NoError(t, store.Set("fetch.exclude_dirs", []string{"vendor"}))
	require.NoError(t, store.Set("process.workers", 2))

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, 8, settings.Fetch.Workers)
	assert.Equal(t, "/tmp/corpus", settings.Fetch.BaseDir)
	assert.Equal(t, 25, settings.Fetch.MaxFileSizeMB)
	assert.Equal(t, 0, settings.Fetch.Retries)
	assert.Equal(t, []string{"*.md", "*.rst"}, settings.Fetch.FilePatterns)
	assert.Equal(t, []string{"vendor"}, settings.Fetch.ExcludeDirs)
	assert.Equal(t, 2, settings.Process.Workers)
}

func TestSettingsService_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"fetch.workers", 0},
		{"fetch.workers", 33},
		{"process.workers", 100},
		{"fetch.max_file_size_mb", 51},
		{"fetch.retries", 11},
		{"fetch.file_patterns", []string{"[unclosed"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, store.Set(tt.key, tt.value))

			_, err := NewSettingsService(store).Get()
			assert.ErrorIs(t, err, domain.ErrInvalidSettings)
		})
	}
}
