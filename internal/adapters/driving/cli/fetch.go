package cli

import (
	"github.com/spf13/cobra"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Download the files of a repository or organisation",
	Long: `Lists every candidate file of a source and downloads it to local disk.
Files that fail to download are reported and do not stop the others.

The results are recorded so that "repocorpus process" can run later.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "directory to write files to")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if pipeline == nil {
		return errNotConfigured
	}

	source := args[0]
	dir, err := targetDir(source, fetchOut)
	if err != nil {
		return err
	}

	_, err = fetchSource(cmd, source, dir)
	return err
}
