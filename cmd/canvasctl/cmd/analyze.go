package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canvasprint/canvasprint/internal/fingerprint"
	"github.com/canvasprint/canvasprint/internal/report"
)

type analyzeOptions struct {
	manifest string
	members  []string
	classes  []string
	exclude  []string
	format   string
}

func newAnalyzeCmd(verbose *bool) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Group the renderings listed in a manifest",
		Long: `Group renderings by pixel equality and print the groups with their entropy.

The manifest is YAML:

  samples:
    - id: s1
      file: renders/s1.png
      exclude_key: 6cfc2b99
      metadata:
        browser: Chrome 120
        graphics_card: ANGLE (NVIDIA)`,
		Example: `  canvasctl analyze --manifest samples.yaml
  canvasctl analyze --manifest samples.yaml --exclude 6cfc2b99 --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, *verbose)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Path to the sample manifest (required)")
	cmd.Flags().StringSliceVar(&opts.members, "members", []string{"graphics_card"}, "Metadata keys ordering members within a group")
	cmd.Flags().StringSliceVar(&opts.classes, "classes", []string{"graphics_card", "browser"}, "Metadata keys ordering groups")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Exclude keys of samples to leave out")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json or csv")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, verbose bool) error {
	write, err := writerFor(opts.format)
	if err != nil {
		return err
	}

	manifest, err := loadManifest(opts.manifest)
	if err != nil {
		return err
	}

	records, err := manifest.records(filepath.Dir(opts.manifest))
	if err != nil {
		return err
	}
	logVerbose(cmd.ErrOrStderr(), verbose, "loaded %d samples from %s", len(records), opts.manifest)

	ordering := fingerprint.Ordering{Members: opts.members, Classes: opts.classes}
	result, err := fingerprint.New[fingerprint.Handle](fingerprint.PixelOracle{}).
		AnalyzeOrdered(records, ordering, fingerprint.NewKeySet(opts.exclude...))
	if err != nil {
		return err
	}
	logVerbose(cmd.ErrOrStderr(), verbose, "%d groups, %d excluded", len(result.Classes), result.Excluded)

	title := strings.TrimSuffix(filepath.Base(opts.manifest), filepath.Ext(opts.manifest))
	rep := report.FromResult(title, result, ordering.Classes, manifest.columns(ordering.Keys()))
	return write(cmd.OutOrStdout(), rep)
}

func writerFor(format string) (func(io.Writer, *report.Report) error, error) {
	switch format {
	case "table":
		return report.WriteTable, nil
	case "json":
		return report.WriteJSON, nil
	case "csv":
		return report.WriteCSV, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want table, json or csv)", format)
	}
}
