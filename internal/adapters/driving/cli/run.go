package cli

import (
	"github.com/spf13/cobra"
)

var (
	runOut    string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run <source>",
	Short: "Fetch a source and normalise its files in one step",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "directory to write files to")
	runCmd.Flags().StringVarP(&runOutput, "output", "O", "", "file to write documents to (default stdout)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if pipeline == nil {
		return errNotConfigured
	}

	source := args[0]
	dir, err := targetDir(source, runOut)
	if err != nil {
		return err
	}

	results, err := fetchSource(cmd, source, dir)
	if err != nil {
		return err
	}
	return processResults(cmd, results, runOutput)
}
