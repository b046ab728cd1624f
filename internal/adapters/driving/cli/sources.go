package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List fetched sources",
	Long:  `Lists every source with a recorded fetch and its file counts.`,
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <source>",
	Short: "Forget the recorded fetch of a source",
	Long:  `Removes the manifest of a source. Fetched files on disk are left in place.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if pipeline == nil || pipeline.ManifestStore == nil {
		return errNotConfigured
	}

	sources, err := pipeline.ManifestStore.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No fetched sources")
		return nil
	}

	for _, source := range sources {
		results, err := pipeline.ManifestStore.List(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("load manifest for %s: %w", source, err)
		}
		failed := 0
		for _, r := range results {
			if r.Failed() {
				failed++
			}
		}
		cmd.Printf("%-40s %d files (%d failed)\n", source, len(results)-failed, failed)
	}
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if pipeline == nil || pipeline.ManifestStore == nil {
		return errNotConfigured
	}

	if err := pipeline.ManifestStore.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("remove manifest: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
