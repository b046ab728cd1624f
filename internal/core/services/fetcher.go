package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
	"github.com/custodia-labs/repocorpus/internal/logger"
)

// Ensure SourceFetcher implements the interface.
var _ driving.SourceFetcher = (*SourceFetcher)(nil)

// errInvalidName is reported for descriptors whose name cannot name a flat local file.
var errInvalidName = errors.New("invalid file name")

// filePerm is the mode of materialised files.
const filePerm = 0o644

// SourceFetcher materialises remote files to local disk.
// Each file is fetched and written independently; one failure never
// affects another.
type SourceFetcher struct {
	client  driven.SourceClient
	workers int
}

// NewSourceFetcher creates a fetcher using client for all remote calls.
// workers bounds the number of concurrent fetches in a batch.
func NewSourceFetcher(client driven.SourceClient, workers int) *SourceFetcher {
	if workers < domain.MinWorkers {
		workers = domain.DefaultWorkers
	}
	return &SourceFetcher{
		client:  client,
		workers: workers,
	}
}

// FetchFile fetches one file and writes it to baseDir/file.Name.
// It never returns an error: every failure becomes a failure result and
// leaves no file behind.
func (f *SourceFetcher) FetchFile(
	ctx context.Context, source string, file domain.FileDescriptor, baseDir string,
) domain.FetchResult {
	return f.fetch(ctx, source, file, baseDir, file.Name)
}

// FetchFiles fetches every descriptor concurrently and returns one result
// per descriptor in input order. Names shared by several descriptors are
// disambiguated so that no write is lost.
func (f *SourceFetcher) FetchFiles(
	ctx context.Context,
	source string,
	files []domain.FileDescriptor,
	baseDir string,
	progress driving.ProgressFunc,
) []domain.FetchResult {
	results := make([]domain.FetchResult, len(files))
	names := LocalNames(files)

	forEach(ctx, len(files), f.workers,
		func(i int) {
			results[i] = f.fetch(ctx, source, files[i], baseDir, names[i])
		},
		func(i int, err error) {
			results[i] = domain.FetchFailed(source, files[i], "fetch cancelled: "+err.Error())
		},
		progress,
	)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	logger.Info("fetched %d of %d files from %s (%d failed)", len(results)-failed, len(results), source, failed)
	return results
}

// FetchSource lists the files of source and fetches all of them into baseDir.
// Only a listing failure is returned as an error; per-file failures are
// carried in the results.
func (f *SourceFetcher) FetchSource(
	ctx context.Context, source, baseDir string, progress driving.ProgressFunc,
) ([]domain.FetchResult, error) {
	files, err := f.client.ListFiles(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", source, err)
	}
	logger.Info("listed %d files from %s", len(files), source)

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", baseDir, err)
	}
	return f.FetchFiles(ctx, source, files, baseDir, progress), nil
}

// fetch retrieves file and writes it atomically to baseDir/name.
func (f *SourceFetcher) fetch(
	ctx context.Context, source string, file domain.FileDescriptor, baseDir, name string,
) (result domain.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = f.fail(source, file, fmt.Sprintf("unexpected error fetching %s: %v", file.Path, r))
		}
	}()

	if !validName(name) {
		return f.fail(source, file, fmt.Sprintf("%v: %q", errInvalidName, name))
	}

	content, err := f.client.GetFile(ctx, file)
	if err != nil {
		return f.fail(source, file, err.Error())
	}

	target := filepath.Join(baseDir, name)
	if err := renameio.WriteFile(target, content, filePerm); err != nil {
		return f.fail(source, file, fmt.Sprintf("write %s: %v", target, err))
	}

	logger.Debug("fetched %s -> %s (%d bytes)", file.Path, target, len(content))
	return domain.FetchSucceeded(source, file, target)
}

func (f *SourceFetcher) fail(source string, file domain.FileDescriptor, msg string) domain.FetchResult {
	logger.Warn("fetch %s: %s", file.Path, msg)
	return domain.FetchFailed(source, file, msg)
}

// validName reports whether name is a single path element.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// LocalNames returns the local file name for each descriptor. Names that
// occur once are kept. Names shared by several descriptors (compared case
// insensitively) are prefixed with the first 8 hex digits of the SHA-256
// of "repository/path".
func LocalNames(files []domain.FileDescriptor) []string {
	counts := make(map[string]int, len(files))
	for _, file := range files {
		counts[strings.ToLower(file.Name)]++
	}

	names := make([]string, len(files))
	taken := make(map[string]bool, len(files))
	for i, file := range files {
		if counts[strings.ToLower(file.Name)] == 1 {
			names[i] = file.Name
			taken[strings.ToLower(file.Name)] = true
		}
	}

	for i, file := range files {
		if names[i] != "" || file.Name == "" || counts[strings.ToLower(file.Name)] == 1 {
			continue
		}
		key := file.Repository + "/" + file.Path
		for n := 0; ; n++ {
			seed := key
			if n > 0 {
				seed = fmt.Sprintf("%s#%d", key, n)
			}
			sum := sha256.Sum256([]byte(seed))
			candidate := hex.EncodeToString(sum[:4]) + "-" + file.Name
			if !taken[strings.ToLower(candidate)] {
				names[i] = candidate
				taken[strings.ToLower(candidate)] = true
				break
			}
		}
	}
	return names
}
