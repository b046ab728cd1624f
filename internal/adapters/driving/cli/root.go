package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
	"github.com/custodia-labs/repocorpus/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	tokenFlag string
	anonymous bool
)

// CredentialValidator checks the configured credential against the remote API.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context) error
}

// Config holds the services used by the commands.
type Config struct {
	SourceFetcher   driving.SourceFetcher
	FileProcessor   driving.FileProcessor
	SettingsService driving.SettingsService
	ManifestStore   driven.ManifestStore
	ConfigStore     driven.ConfigStore

	// TokenProvider supplies the credential used for remote calls.
	TokenProvider       driven.TokenProvider
	CredentialValidator CredentialValidator

	// SelectCredentials applies the --token and --anonymous flags before
	// any command runs.
	SelectCredentials func(token string, anonymous bool)

	// CacheDir is the base directory used when fetch.base_dir is unset.
	CacheDir string
}

// pipeline holds the current command configuration.
var pipeline *Config

var rootCmd = &cobra.Command{
	Use:   "repocorpus",
	Short: "Fetch repository files and normalise them into documents",
	Long: `repocorpus downloads the files of a GitHub repository or organisation
and converts each one into a normalised document with extracted text
and metadata.

Sources are given as owner/repo, an organisation name, or a github.com URL.
Set GITHUB_TOKEN (or add it to a .env file) or pass --token for
authenticated access.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		if pipeline != nil && pipeline.SelectCredentials != nil {
			pipeline.SelectCredentials(tokenFlag, anonymous)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "GitHub token, overriding GITHUB_TOKEN")
	rootCmd.PersistentFlags().BoolVar(&anonymous, "anonymous", false, "make unauthenticated requests")
	rootCmd.MarkFlagsMutuallyExclusive("token", "anonymous")
}

// Configure sets the services used by the commands.
func Configure(config *Config) {
	pipeline = config
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
