package export

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"mindmap/internal/tree"
)

// SVG renders root as a standalone SVG document in content units.
func SVG(w io.Writer, root *tree.Node, opts Options) error {
	s, err := prepare(root, opts)
	if err != nil {
		return err
	}
	width := int(math.Ceil(s.bounds.Width))
	height := int(math.Ceil(s.bounds.Height))
	at := func(x, y float64) (float64, float64) {
		return x - s.bounds.X, y - s.bounds.Y
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+css(colorBackdrop))

	linkStyle := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", css(colorLink))
	for _, l := range s.links {
		c := curve(l.from, l.to)
		x0, y0 := at(c[0][0], c[0][1])
		x1, y1 := at(c[1][0], c[1][1])
		x2, y2 := at(c[2][0], c[2][1])
		x3, y3 := at(c[3][0], c[3][1])
		d := fmt.Sprintf("M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f", x0, y0, x1, y1, x2, y2, x3, y3)
		canvas.Path(d, linkStyle, fmt.Sprintf(`data-source="%s" data-target="%s"`, html.EscapeString(l.from.ID), html.EscapeString(l.to.ID)))
	}

	textStyle := fmt.Sprintf("fill:%s;font-size:%gpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:central",
		css(colorText), opts.FontSize)
	tree.Traverse(s.root, func(n *tree.Node) {
		x, y := at(n.X-n.Width/2, n.Y-n.Height/2)
		canvas.Group(fmt.Sprintf(`class="node" data-id="%s"`, html.EscapeString(n.ID)))
		canvas.Roundrect(int(math.Round(x)), int(math.Round(y)),
			int(math.Round(n.Width)), int(math.Round(n.Height)),
			int(cornerRadius), int(cornerRadius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(fillFor(n)), css(colorStroke)))
		rows := lines(n.Text)
		lineHeight := (n.Height - 2*opts.NodePadding.Y) / float64(len(rows))
		cx, top := at(n.X, n.Y-n.Height/2+opts.NodePadding.Y)
		for i, row := range rows {
			canvas.Text(int(math.Round(cx)), int(math.Round(top+(float64(i)+0.5)*lineHeight)), row, textStyle)
		}
		canvas.Gend()
	})

	canvas.End()
	return nil
}
