package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
)

var errNotConfigured = errors.New("pipeline not configured")

var unsafeDirChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sourceDirName turns a source identifier into a single directory name.
func sourceDirName(source string) string {
	s := strings.TrimSpace(source)
	for _, prefix := range []string{"https://", "http://", "www.", "github.com/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	s = strings.Trim(unsafeDirChars.ReplaceAllString(s, "_"), "_.")
	if s == "" {
		return "source"
	}
	return s
}

// targetDir returns out when set, otherwise the source's directory under
// the configured base directory.
func targetDir(source, out string) (string, error) {
	if out != "" {
		return out, nil
	}
	base := pipeline.CacheDir
	if pipeline.SettingsService != nil {
		settings, err := pipeline.SettingsService.Get()
		if err != nil {
			return "", err
		}
		if settings.Fetch.BaseDir != "" {
			base = settings.Fetch.BaseDir
		}
	}
	if base == "" {
		return "", errors.New("no output directory: pass --out or set fetch.base_dir")
	}
	return filepath.Join(base, sourceDirName(source)), nil
}

// progressPrinter reports batch progress on stderr when it is a terminal.
func progressPrinter(cmd *cobra.Command, label string) driving.ProgressFunc {
	w := cmd.ErrOrStderr()
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(w, "\r%s %d/%d", label, done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

// fetchSource fetches source into dir and records the results in the manifest.
func fetchSource(cmd *cobra.Command, source, dir string) ([]domain.FetchResult, error) {
	if pipeline == nil || pipeline.SourceFetcher == nil {
		return nil, errNotConfigured
	}

	results, err := pipeline.SourceFetcher.FetchSource(cmd.Context(), source, dir, progressPrinter(cmd, "Fetching"))
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	if pipeline.ManifestStore != nil {
		// The latest fetch replaces the source's manifest.
		if err := pipeline.ManifestStore.Replace(cmd.Context(), source, results); err != nil {
			return nil, fmt.Errorf("save manifest: %w", err)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			cmd.PrintErrf("  failed %s: %s\n", r.File.Path, r.Err())
		}
	}
	cmd.PrintErrf("Fetched %d files from %s into %s (%d failed)\n", len(results)-failed, source, dir, failed)
	return results, nil
}

// processResults normalises results and writes one JSON document per line
// to output, or to the command's stdout when output is empty.
func processResults(cmd *cobra.Command, results []domain.FetchResult, output string) error {
	if pipeline == nil || pipeline.FileProcessor == nil {
		return errNotConfigured
	}

	docs := pipeline.FileProcessor.ProcessFiles(cmd.Context(), results, progressPrinter(cmd, "Processing"))

	if output == "" {
		if err := writeDocuments(cmd.OutOrStdout(), docs); err != nil {
			return err
		}
	} else if err := writeDocumentsFile(output, docs); err != nil {
		return err
	}

	failed := 0
	for _, d := range docs {
		if d.Failed() {
			failed++
		}
	}
	cmd.PrintErrf("Processed %d documents (%d failed)\n", len(docs)-failed, failed)
	return nil
}

// writeDocuments encodes docs as JSON Lines.
func writeDocuments(w io.Writer, docs []domain.Document) error {
	enc := json.NewEncoder(w)
	for i := range docs {
		if err := enc.Encode(docs[i]); err != nil {
			return fmt.Errorf("encode document %d: %w", i, err)
		}
	}
	return nil
}

// writeDocumentsFile atomically replaces path with docs as JSON Lines.
func writeDocumentsFile(path string, docs []domain.Document) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Cleanup() }()

	if err := writeDocuments(f, docs); err != nil {
		return err
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
