// Package document encodes mind maps in the on-disk .mind format:
//
//	{"data": <root node>, "metadata": {"view": {...}}}
//
// Layout geometry and collapse state are runtime only and never written.
// Payloads without the wrapper are read as a bare root node.
package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"mindmap/internal/tree"
	"mindmap/internal/viewport"
)

// Extension is the file extension used for saved mind maps.
const Extension = ".mind"

// ErrFileRead is returned for payloads that are not a readable mind map.
var ErrFileRead = errors.New("file read error")

// ViewMeta is the persisted part of the view state. PanX/PanY are only
// written when pan recording is requested.
type ViewMeta struct {
	Scale    float64  `json:"scale"`
	PanX     *float64 `json:"panX,omitempty"`
	PanY     *float64 `json:"panY,omitempty"`
	MinScale float64  `json:"minScale"`
	MaxScale float64  `json:"maxScale"`
}

// HasPan reports whether the saved view carries a full pan.
func (v *ViewMeta) HasPan() bool {
	return v != nil && v.PanX != nil && v.PanY != nil
}

type Metadata struct {
	View *ViewMeta `json:"view,omitempty"`
}

type Document struct {
	Data     *tree.Node `json:"data"`
	Metadata *Metadata  `json:"metadata,omitempty"`
}

// View returns the saved view metadata or nil.
func (d *Document) View() *ViewMeta {
	if d == nil || d.Metadata == nil {
		return nil
	}
	return d.Metadata.View
}

// Savable builds the persisted form of root and the current view.
func Savable(root *tree.Node, view viewport.State, recordPan bool) *Document {
	meta := &ViewMeta{
		Scale:    view.Scale,
		MinScale: view.MinScale,
		MaxScale: view.MaxScale,
	}
	if recordPan {
		panX, panY := view.PanX, view.PanY
		meta.PanX, meta.PanY = &panX, &panY
	}
	return &Document{
		Data:     normalized(root),
		Metadata: &Metadata{View: meta},
	}
}

// normalized deep copies root with every nil child list made empty so it
// encodes as [] rather than null.
func normalized(root *tree.Node) *tree.Node {
	if root == nil {
		return nil
	}
	cp := tree.Clone(root)
	tree.Traverse(cp, func(n *tree.Node) {
		if n.Children == nil {
			n.Children = []*tree.Node{}
		}
	})
	return cp
}

// Marshal encodes doc with two-space indentation.
func Marshal(doc *Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return out, nil
}

// ContentKey is a compact encoding of ids, text and structure only. Two trees
// with equal keys differ at most in layout or collapse state.
func ContentKey(root *tree.Node) string {
	out, err := json.Marshal(normalized(root))
	if err != nil {
		return ""
	}
	return string(out)
}

// IsBlank reports whether raw holds only whitespace.
func IsBlank(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Parse decodes raw. A blank payload yields a nil document and no error,
// meaning a new document should be started. Malformed payloads return an
// error wrapping ErrFileRead.
func Parse(raw []byte) (*Document, error) {
	if IsBlank(raw) {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	doc := &Document{}
	if present(env.Data) && present(env.Metadata) {
		if err := json.Unmarshal(env.Data, &doc.Data); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrFileRead, err)
		}
		doc.Metadata = &Metadata{}
		if err := json.Unmarshal(env.Metadata, doc.Metadata); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", ErrFileRead, err)
		}
	} else if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	if doc.Data == nil || doc.Data.ID == "" {
		return nil, fmt.Errorf("%w: root node has no id", ErrFileRead)
	}
	tree.Traverse(doc.Data, func(n *tree.Node) {
		if n.ID == "" {
			n.ID = tree.NewID()
		}
		kept := n.Children[:0]
		for _, c := range n.Children {
			if c != nil {
				kept = append(kept, c)
			}
		}
		n.Children = kept
	})
	return doc, nil
}
