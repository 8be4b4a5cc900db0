// Package export renders a mind map to PNG or SVG. Rendering works on a
// fully expanded copy of the tree measured with real font metrics, so the
// caller's tree and its collapse state are left untouched.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

// ErrNothingToExport is returned when the tree has no measurable node.
var ErrNothingToExport = errors.New("nothing to export")

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

const (
	DefaultPadding       = 50.0
	DefaultPNGMultiplier = 3.0
	DefaultFontSize      = 14.0
	cornerRadius         = 6.0
	// curveBend and curveLift shape the default parent-child link curve.
	curveBend = 0.4
	curveLift = 0.5
)

var (
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorNode     = color.RGBA{0xf5, 0xf7, 0xfa, 0xff}
	colorRoot     = color.RGBA{0xdc, 0xe8, 0xfb, 0xff}
	colorStroke   = color.RGBA{0x5b, 0x6b, 0x84, 0xff}
	colorLink     = color.RGBA{0x9a, 0xa5, 0xb8, 0xff}
	colorText     = color.RGBA{0x1f, 0x29, 0x37, 0xff}
)

type Options struct {
	// Padding is added around the content bounds, in content units.
	Padding float64
	// Multiplier scales the PNG resolution.
	Multiplier  float64
	FontSize    float64
	Layout      layout.Options
	NodePadding layout.Padding
}

func DefaultOptions() Options {
	return Options{
		Padding:     DefaultPadding,
		Multiplier:  DefaultPNGMultiplier,
		FontSize:    DefaultFontSize,
		Layout:      layout.DefaultOptions(),
		NodePadding: layout.DefaultPadding(),
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want .png or .svg)", filepath.Ext(path))
}

// File writes root to path in the format implied by its extension.
func File(path string, root *tree.Node, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatPNG:
		err = PNG(f, root, opts)
	case FormatSVG:
		err = SVG(f, root, opts)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// scene is the expanded, laid out copy of a tree ready to be drawn.
type scene struct {
	root   *tree.Node
	bounds viewport.Rect
	links  []link
}

type link struct {
	from, to *tree.Node
}

func prepare(root *tree.Node, opts Options) (*scene, error) {
	if root == nil {
		return nil, ErrNothingToExport
	}
	m, err := layout.NewFontMeasurer(opts.FontSize)
	if err != nil {
		return nil, err
	}
	cp := tree.Clone(root)
	tree.ExpandAll(cp)
	layout.MeasureTree(cp, m, opts.NodePadding)
	layout.AutoLayout(cp, opts.Layout)

	bounds := viewport.ContentBounds(cp, true)
	if bounds.IsZero() {
		return nil, ErrNothingToExport
	}
	s := &scene{root: cp, bounds: bounds.Pad(opts.Padding)}
	tree.Traverse(cp, func(n *tree.Node) {
		for _, c := range n.Children {
			s.links = append(s.links, link{from: n, to: c})
		}
	})
	return s, nil
}

// curve returns the cubic Bézier from the right edge of the parent to the
// left edge of the child as start, two control points and end.
func curve(from, to *tree.Node) [4][2]float64 {
	sx, sy := from.X+from.Width/2, from.Y
	tx, ty := to.X-to.Width/2, to.Y
	midY := (sy + ty) / 2
	return [4][2]float64{
		{sx, sy},
		{sx + (tx-sx)*curveBend, sy + (midY-sy)*curveLift},
		{tx - (tx-sx)*curveBend, ty - (ty-midY)*curveLift},
		{tx, ty},
	}
}

func lines(text string) []string {
	return strings.Split(text, "\n")
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fillFor(n *tree.Node) color.RGBA {
	if n.ID == tree.RootID {
		return colorRoot
	}
	return colorNode
}
