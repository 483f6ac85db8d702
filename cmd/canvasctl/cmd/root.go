package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "canvasctl",
		Short: "canvasctl - canvas fingerprint analysis",
		Long: `canvasctl groups canvas renderings by pixel equality and reports how
identifying they are.

Commands:
  analyze - Group the renderings listed in a manifest
  token   - Issue an admin token for the API
  version - Print the version

Example:
  canvasctl analyze --manifest samples.yaml
  canvasctl analyze --manifest samples.yaml --classes browser --format json
  canvasctl token --subject alice --ttl 24h`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(newAnalyzeCmd(&verbose))
	root.AddCommand(newTokenCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "canvasctl", Version)
		},
	})

	return root
}

// Execute runs the CLI
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

// logVerbose logs a message if verbose mode is enabled
func logVerbose(w io.Writer, verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(w, "[canvasctl] "+format+"\n", args...)
	}
}
