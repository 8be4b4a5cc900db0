package layout

import (
	"fmt"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"mindmap/internal/tree"
)

// placeholder is measured for nodes without text so empty nodes keep a
// visible, non-zero box.
const placeholder = "M"

// Size is a measured text extent.
type Size struct {
	Width  float64
	Height float64
}

// Measurer turns node text into a size. Implementations live outside the
// layout pass so the pass never depends on font metrics.
type Measurer interface {
	Measure(text string, node *tree.Node) Size
}

// Padding is added on both sides of the measured text.
type Padding struct {
	X float64
	Y float64
}

func DefaultPadding() Padding {
	return Padding{X: 15, Y: 10}
}

// MeasureTree sets Width/Height on every node, collapsed ones included, so
// expanding a node later never lays out unmeasured boxes.
func MeasureTree(root *tree.Node, m Measurer, pad Padding) {
	tree.Traverse(root, func(n *tree.Node) {
		text := strings.TrimSpace(n.Text)
		if text != "" {
			size := m.Measure(n.Text, n)
			n.Width = size.Width + 2*pad.X
			n.Height = size.Height + 2*pad.Y
			return
		}
		size := m.Measure(placeholder, n)
		n.Height = size.Height + 2*pad.Y
		n.Width = n.Height
	})
}

// CellMeasurer measures text in terminal cells and scales the result to
// content units, one cell being CellWidth x CellHeight.
type CellMeasurer struct {
	CellWidth  float64
	CellHeight float64
}

func NewCellMeasurer() CellMeasurer {
	return CellMeasurer{CellWidth: 8, CellHeight: 16}
}

func (c CellMeasurer) Measure(text string, _ *tree.Node) Size {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return Size{
		Width:  float64(widest) * c.CellWidth,
		Height: float64(len(lines)) * c.CellHeight,
	}
}

// FontMeasurer measures text with real glyph advances from a TrueType face.
type FontMeasurer struct {
	face       font.Face
	lineHeight float64
}

// NewFontMeasurer parses the bundled Go Regular font at the given size.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &FontMeasurer{
		face:       face,
		lineHeight: float64(face.Metrics().Height) / 64,
	}, nil
}

// Face exposes the font face so renderers draw with the metrics used here.
func (f *FontMeasurer) Face() font.Face {
	return f.face
}

func (f *FontMeasurer) Measure(text string, _ *tree.Node) Size {
	lines := strings.Split(text, "\n")
	var widest float64
	for _, line := range lines {
		if w := float64(font.MeasureString(f.face, line)) / 64; w > widest {
			widest = w
		}
	}
	return Size{Width: widest, Height: float64(len(lines)) * f.lineHeight}
}
