package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processOutput string

var processCmd = &cobra.Command{
	Use:   "process <source>",
	Short: "Normalise previously fetched files into documents",
	Long: `Converts the files recorded by "repocorpus fetch" into documents and
writes them as JSON Lines, one document per fetched file in order.
Files that cannot be converted produce {"error": "..."} lines.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "O", "", "file to write documents to (default stdout)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if pipeline == nil || pipeline.ManifestStore == nil {
		return errNotConfigured
	}

	source := args[0]
	results, err := pipeline.ManifestStore.List(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no fetched files for %s: run \"repocorpus fetch %s\" first", source, source)
	}

	return processResults(cmd, results, processOutput)
}
