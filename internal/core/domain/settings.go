package domain

import (
	"fmt"
	"path/filepath"
)

// Setting bounds.
const (
	MinWorkers       = 1
	MaxWorkers       = 32
	MinFileSizeMB    = 1
	MaxFileSizeMB    = 50
	MaxFetchRetries  = 10
	DefaultWorkers   = 4
	DefaultMaxSizeMB = 10
	DefaultRetries   = 3
)

// DefaultExcludeDirs are directory names never descended into when listing.
func DefaultExcludeDirs() []string {
	return []string{".git", "node_modules", "__pycache__", "build", "dist"}
}

// FetchSettings configures remote retrieval.
type FetchSettings struct {
	// Workers bounds concurrent downloads.
	Workers int

	// BaseDir is the root under which each source gets its own directory.
	// Empty means ~/.repocorpus/cache.
	BaseDir string

	// MaxFileSizeMB skips larger files when listing.
	MaxFileSizeMB int

	// Retries is the number of retries for transient remote errors.
	Retries int

	// FilePatterns are glob patterns a file must match. Empty means the
	// default extension allow-list.
	FilePatterns []string

	// ExcludeDirs are directory names skipped when listing.
	ExcludeDirs []string
}

// ProcessSettings configures extraction.
type ProcessSettings struct {
	// Workers bounds concurrent extractions.
	Workers int
}

// Settings holds all pipeline tunables.
type Settings struct {
	Fetch   FetchSettings
	Process ProcessSettings
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Fetch: FetchSettings{
			Workers:       DefaultWorkers,
			MaxFileSizeMB: DefaultMaxSizeMB,
			Retries:       DefaultRetries,
			ExcludeDirs:   DefaultExcludeDirs(),
		},
		Process: ProcessSettings{
			Workers: DefaultWorkers,
		},
	}
}

// Validate checks every setting is within its allowed range.
func (s Settings) Validate() error {
	if s.Fetch.Workers < MinWorkers || s.Fetch.Workers > MaxWorkers {
		return fmt.Errorf("%w: fetch.workers must be between %d and %d, got %d",
			ErrInvalidSettings, MinWorkers, MaxWorkers, s.Fetch.Workers)
	}
	if s.Process.Workers < MinWorkers || s.Process.Workers > MaxWorkers {
		return fmt.Errorf("%w: process.workers must be between %d and %d, got %d",
			ErrInvalidSettings, MinWorkers, MaxWorkers, s.Process.Workers)
	}
	if s.Fetch.MaxFileSizeMB < MinFileSizeMB || s.Fetch.MaxFileSizeMB > MaxFileSizeMB {
		return fmt.Errorf("%w: fetch.max_file_size_mb must be between %d and %d, got %d",
			ErrInvalidSettings, MinFileSizeMB, MaxFileSizeMB, s.Fetch.MaxFileSizeMB)
	}
	if s.Fetch.Retries < 0 || s.Fetch.Retries > MaxFetchRetries {
		return fmt.Errorf("%w: fetch.retries must be between 0 and %d, got %d",
			ErrInvalidSettings, MaxFetchRetries, s.Fetch.Retries)
	}
	for _, p := range s.Fetch.FilePatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%w: bad file pattern %q: %w", ErrInvalidSettings, p, err)
		}
	}
	return nil
}

// MaxFileSizeBytes returns the size limit in bytes.
func (s FetchSettings) MaxFileSizeBytes() int64 {
	return int64(s.MaxFileSizeMB) * 1024 * 1024
}
