package export

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"

	"mindmap/internal/layout"
	"mindmap/internal/tree"
)

// PNG renders root at opts.Multiplier times its content size.
func PNG(w io.Writer, root *tree.Node, opts Options) error {
	s, err := prepare(root, opts)
	if err != nil {
		return err
	}
	mult := opts.Multiplier
	if mult <= 0 {
		mult = 1
	}
	// gg does not scale glyphs with the context matrix, so text is drawn
	// with a face that is already multiplied.
	drawFace, err := layout.NewFontMeasurer(opts.FontSize * mult)
	if err != nil {
		return err
	}

	width := int(math.Ceil(s.bounds.Width * mult))
	height := int(math.Ceil(s.bounds.Height * mult))
	px := func(x, y float64) (float64, float64) {
		return (x - s.bounds.X) * mult, (y - s.bounds.Y) * mult
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorLink)
	dc.SetLineWidth(1.5 * mult)
	for _, l := range s.links {
		c := curve(l.from, l.to)
		x0, y0 := px(c[0][0], c[0][1])
		x1, y1 := px(c[1][0], c[1][1])
		x2, y2 := px(c[2][0], c[2][1])
		x3, y3 := px(c[3][0], c[3][1])
		dc.NewSubPath()
		dc.MoveTo(x0, y0)
		dc.CubicTo(x1, y1, x2, y2, x3, y3)
		dc.Stroke()
	}

	dc.SetFontFace(drawFace.Face())
	tree.Traverse(s.root, func(n *tree.Node) {
		x, y := px(n.X-n.Width/2, n.Y-n.Height/2)
		nw, nh := n.Width*mult, n.Height*mult
		dc.SetColor(fillFor(n))
		dc.DrawRoundedRectangle(x, y, nw, nh, cornerRadius*mult)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(mult)
		dc.DrawRoundedRectangle(x, y, nw, nh, cornerRadius*mult)
		dc.Stroke()

		dc.SetColor(colorText)
		rows := lines(n.Text)
		lineHeight := (n.Height - 2*opts.NodePadding.Y) / float64(len(rows)) * mult
		cx, top := px(n.X, n.Y-n.Height/2+opts.NodePadding.Y)
		for i, row := range rows {
			dc.DrawStringAnchored(row, cx, top+(float64(i)+0.5)*lineHeight, 0.5, 0.5)
		}
	})

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
