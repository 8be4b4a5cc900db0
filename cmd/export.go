package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mindmap/internal/debug"
	"mindmap/internal/export"
)

var (
	exportOutputs    []string
	exportMultiplier float64
	exportPadding    float64
	exportFontSize   float64
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render a mind map to PNG or SVG",
	Long: `Render every node of a mind map, collapsed branches included.

The format follows each output's extension. Several outputs are rendered
concurrently:

  mindmap export plan.mind -o plan.png -o plan.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		if len(exportOutputs) == 0 {
			return fmt.Errorf("no output given, use -o <file.png|file.svg>")
		}
		for _, out := range exportOutputs {
			if _, err := export.FormatFromPath(out); err != nil {
				return err
			}
		}

		opts := cfg.ExportOptions()
		if exportMultiplier > 0 {
			opts.Multiplier = exportMultiplier
		}
		if exportPadding >= 0 {
			opts.Padding = exportPadding
		}
		if exportFontSize > 0 {
			opts.FontSize = exportFontSize
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		for _, out := range exportOutputs {
			out := out
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				if err := export.File(out, root, opts); err != nil {
					return fmt.Errorf("%s: %w", out, err)
				}
				debug.LogTiming("export "+out, time.Since(start))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, out := range exportOutputs {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringArrayVarP(&exportOutputs, "output", "o", nil, "Output file, .png or .svg (repeatable)")
	exportCmd.Flags().Float64Var(&exportMultiplier, "scale", 0, "PNG resolution multiplier (default 3)")
	exportCmd.Flags().Float64Var(&exportPadding, "padding", -1, "Padding around the map (default 50)")
	exportCmd.Flags().Float64Var(&exportFontSize, "font-size", 0, "Font size in points (default 14)")
	rootCmd.AddCommand(exportCmd)
}
