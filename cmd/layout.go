package cmd

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

var (
	layoutJSON  bool
	layoutCells bool
)

// placedNode is one row of the layout report.
type placedNode struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "Print the computed position of every node",
	Long: `Measure and lay out a mind map with every branch expanded, then print
each node's center and size. Boxes are measured with the export font unless --cells is
given, in which case terminal cell metrics are used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		placed, err := placeNodes(root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if layoutJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(placed)
		}
		for _, p := range placed {
			fmt.Fprintf(out, "%8.1f %8.1f %7.1f %6.1f  %s%s\n",
				p.X, p.Y, p.Width, p.Height, strings.Repeat("  ", p.Depth), oneLine(p.Text))
		}
		return nil
	},
}

func placeNodes(root *tree.Node) ([]placedNode, error) {
	var (
		m   layout.Measurer
		pad = cfg.Padding()
	)
	if layoutCells {
		cm := layout.NewCellMeasurer()
		m, pad = cm, layout.Padding{X: cm.CellWidth, Y: cm.CellHeight}
	} else {
		fm, err := layout.NewFontMeasurer(cfg.ExportOptions().FontSize)
		if err != nil {
			return nil, err
		}
		m = fm
	}

	tree.ExpandAll(root)
	layout.MeasureTree(root, m, pad)
	layout.AutoLayout(root, cfg.LayoutOptions())

	var placed []placedNode
	tree.TraverseDepth(root, func(n *tree.Node, depth int) {
		placed = append(placed, placedNode{
			ID: n.ID, Text: n.Text, Depth: depth,
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		})
	})
	return placed, nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func init() {
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "Print JSON instead of a table")
	layoutCmd.Flags().BoolVar(&layoutCells, "cells", false, "Measure text in terminal cells")
	rootCmd.AddCommand(layoutCmd)
}
