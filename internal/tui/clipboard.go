package tui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"mindmap/internal/tree"
)

const outlineIndent = "  "

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// outline renders a subtree as indented text, one node per line. Line breaks
// inside a node become spaces.
func outline(n *tree.Node) string {
	var b strings.Builder
	tree.TraverseDepth(n, func(node *tree.Node, depth int) {
		b.WriteString(strings.Repeat(outlineIndent, depth))
		b.WriteString(strings.ReplaceAll(node.Text, "\n", " "))
		b.WriteByte('\n')
	})
	return b.String()
}

// parseOutline turns indented text into subtrees with fresh ids. A tab
// counts as one level; list bullets are dropped. Each top-level line starts
// a new subtree.
func parseOutline(text string) []*tree.Node {
	type frame struct {
		indent int
		node   *tree.Node
	}
	var (
		roots []*tree.Node
		stack []frame
	)
	for _, raw := range strings.Split(cleanClipboardText(text), "\n") {
		raw = strings.ReplaceAll(raw, "\t", outlineIndent)
		body := strings.TrimLeft(raw, " ")
		if strings.TrimSpace(body) == "" {
			continue
		}
		indent := len(raw) - len(body)
		for _, bullet := range []string{"- ", "* ", "+ "} {
			body = strings.TrimPrefix(body, bullet)
		}
		node := &tree.Node{ID: tree.NewID(), Text: strings.TrimSpace(body), Children: []*tree.Node{}}

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, frame{indent: indent, node: node})
	}
	return roots
}

// cleanClipboardText strips RTF and HTML markup and control characters and
// normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	if isHTML(text) {
		text = extractTextFromHTML(text)
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

func isHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") ||
			strings.Contains(text, "<div") || strings.Contains(text, "<ul"))
}

// extractTextFromHTML keeps text content, turning block closers into line
// breaks so lists survive as outlines.
func extractTextFromHTML(html string) string {
	var (
		result strings.Builder
		tag    strings.Builder
		inTag  bool
	)
	result.Grow(len(html))
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			if fields := strings.Fields(tag.String()); len(fields) > 0 {
				switch strings.ToLower(fields[0]) {
				case "/li", "/p", "/div", "br", "br/":
					result.WriteByte('\n')
				}
			}
		case inTag:
			tag.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}
	text := result.String()
	replacer := strings.NewReplacer(
		"&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
	)
	return replacer.Replace(text)
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") && !strings.Contains(text, "\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r == '\\' {
			if i+1 < len(runes) {
				next := runes[i+1]
				if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') {
					start := i + 1
					i++
					for i < len(runes) {
						if runes[i] == ' ' || runes[i] == '\\' || runes[i] == '{' || runes[i] == '}' {
							break
						}
						i++
					}
					word := strings.TrimRight(string(runes[start:i]), "-0123456789")
					if word == "par" || word == "line" {
						result.WriteByte('\n')
					}
					if i < len(runes) && runes[i] != ' ' {
						i--
					}
					continue
				} else if next == '\\' || next == '{' || next == '}' {
					result.WriteRune(next)
					i++
					continue
				}
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
