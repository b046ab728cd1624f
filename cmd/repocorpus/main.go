// Command repocorpus fetches the files of GitHub repositories and
// organisations and normalises them into JSON documents.
//
// Usage:
//
//	repocorpus fetch <source> [--out DIR]
//	repocorpus process <source> [--output FILE]
//	repocorpus run <source> [--out DIR] [--output FILE]
//	repocorpus sources
//	repocorpus config [list|get|set|path|check]
//
// Global flags --token and --anonymous override the GITHUB_TOKEN credential.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/repocorpus/internal/adapters/driven/auth"
	"github.com/custodia-labs/repocorpus/internal/adapters/driven/config/file"
	"github.com/custodia-labs/repocorpus/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/repocorpus/internal/adapters/driving/cli"
	"github.com/custodia-labs/repocorpus/internal/connectors/github"
	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/services"
	"github.com/custodia-labs/repocorpus/internal/logger"
	"github.com/custodia-labs/repocorpus/internal/normalisers"
)

// version is set at build time via -ldflags.
var version = "dev"

// homeEnv overrides the data directory.
const homeEnv = "REPOCORPUS_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dir := os.Getenv(homeEnv)
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		// Keep going so "config set" can repair the value.
		logger.Error("%v; using defaults", err)
		settings = domain.DefaultSettings()
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = store.Close() }()

	// --token and --anonymous replace the environment token once flags are parsed.
	tokenProvider := auth.NewSelector(auth.NewEnvTokenProvider(".env", filepath.Join(dir, ".env")))
	client := github.NewClient(tokenProvider, github.WithRetries(settings.Fetch.Retries))
	connector := github.New(client, listOptions(settings.Fetch))

	cli.SetVersion(version)
	cli.Configure(&cli.Config{
		SourceFetcher:       services.NewSourceFetcher(connector, settings.Fetch.Workers),
		FileProcessor:       services.NewFileProcessor(normalisers.NewDefaultRegistry(), settings.Process.Workers),
		SettingsService:     settingsService,
		ManifestStore:       store.ManifestStore(),
		ConfigStore:         configStore,
		TokenProvider:       tokenProvider,
		CredentialValidator: client,
		SelectCredentials:   tokenProvider.Use,
		CacheDir:            filepath.Join(dir, "cache"),
	})
	return cli.Execute(ctx)
}

// listOptions maps fetch settings to connector listing options.
// File patterns replace the default extension allow-list.
func listOptions(s domain.FetchSettings) github.ListOptions {
	opts := github.ListOptions{
		ExcludeDirs: s.ExcludeDirs,
		MaxSize:     s.MaxFileSizeBytes(),
	}
	if len(s.FilePatterns) > 0 {
		opts.FilePatterns = s.FilePatterns
	} else {
		opts.Extensions = github.DefaultExtensions
	}
	return opts
}
