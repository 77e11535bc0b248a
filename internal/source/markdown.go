package source

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownText extracts the prose of a Markdown document. Code blocks and
// raw HTML are dropped. Headings and list items that do not end a sentence
// get a period so they are not merged into the next sentence.
func MarkdownText(src []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	var buf bytes.Buffer
	blockStart := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(src))
			}
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if entering {
				blockStart = buf.Len()
				return ast.WalkContinue, nil
			}
			buf.Truncate(len(bytes.TrimRight(buf.Bytes(), " ")))
			block := buf.Bytes()[min(blockStart, buf.Len()):]
			if len(block) > 0 && standalone(n) && !endsSentence(block) {
				buf.WriteByte('.')
			}
			buf.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func standalone(n ast.Node) bool {
	if n.Kind() == ast.KindHeading {
		return true
	}
	_, inItem := n.Parent().(*ast.ListItem)
	return inItem
}

func endsSentence(block []byte) bool {
	trimmed := bytes.TrimRight(block, "\"')]”»")
	r, _ := utf8.DecodeLastRune(trimmed)
	return r == '.' || r == '!' || r == '?'
}
