// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// RenderMarkdown renders service-produced markdown (receipts, mostly)
// as styled terminal output at the given width. Headings, emphasis,
// lists, and GFM tables are supported; that covers everything the
// store service emits.
func RenderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output always targets a
	// bubbletea view, and auto-detection yields uncolored output when
	// there is no TTY (tests, piped output).
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)

	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. Inline content accumulates in a buffer and is wrapped as a
// unit when the containing block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	boldCount   int
	italicCount int

	listDepth   int
	listCounter []int // per-depth ordered-list counters; 0 for bullets

	lipRenderer *lipgloss.Renderer
}

func (r *markdownRenderer) newStyle() lipgloss.Style {
	return r.lipRenderer.NewStyle()
}

func (r *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Heading:
		if entering {
			r.inline.Reset()
		} else {
			style := r.newStyle().Bold(true).Foreground(r.theme.HeaderForeground)
			line := style.Render(r.inline.String())
			if typed.Level <= 2 {
				rule := r.newStyle().Foreground(r.theme.BorderColor).
					Render(strings.Repeat("─", min(r.width, ansi.StringWidth(r.inline.String()))))
				line += "\n" + rule
			}
			r.inline.Reset()
			r.writeBlock(line)
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			r.inline.Reset()
		} else {
			content := ansi.Wordwrap(r.inline.String(), r.contentWidth(), " ")
			r.inline.Reset()
			if r.listDepth > 0 {
				r.writeListLine(content)
			} else {
				r.writeBlock(content)
			}
		}

	case *ast.Text:
		if entering {
			r.appendText(string(typed.Segment.Value(r.source)))
			if typed.SoftLineBreak() {
				r.appendText(" ")
			} else if typed.HardLineBreak() {
				r.inline.WriteString("\n")
			}
		}

	case *ast.Emphasis:
		if entering {
			if typed.Level >= 2 {
				r.boldCount++
			} else {
				r.italicCount++
			}
		} else {
			if typed.Level >= 2 {
				r.boldCount--
			} else {
				r.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			style := r.newStyle().Foreground(r.theme.TotalText)
			r.inline.WriteString(style.Render(string(nodeText(typed, r.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			var lines []string
			segments := node.Lines()
			for i := 0; i < segments.Len(); i++ {
				segment := segments.At(i)
				lines = append(lines, strings.TrimRight(string(segment.Value(r.source)), "\n"))
			}
			style := r.newStyle().Foreground(r.theme.FaintText)
			r.writeBlock(style.Render(strings.Join(lines, "\n")))
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			r.listDepth++
			counter := 0
			if typed.IsOrdered() {
				counter = typed.Start
			}
			r.listCounter = append(r.listCounter, counter)
		} else {
			r.listDepth--
			r.listCounter = r.listCounter[:len(r.listCounter)-1]
			if r.listDepth == 0 {
				r.output.WriteString("\n")
			}
		}

	case *ast.ThematicBreak:
		if entering {
			rule := r.newStyle().Foreground(r.theme.BorderColor).
				Render(strings.Repeat("─", r.width))
			r.writeBlock(rule)
		}

	case *extast.Table:
		if entering {
			r.renderTable(typed)
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// appendText writes text into the inline buffer with the current
// emphasis styling applied.
func (r *markdownRenderer) appendText(content string) {
	if content == "" {
		return
	}
	style := r.newStyle().Foreground(r.theme.NormalText)
	if r.boldCount > 0 {
		style = style.Bold(true).Foreground(r.theme.TotalText)
	}
	if r.italicCount > 0 {
		style = style.Italic(true)
	}
	r.inline.WriteString(style.Render(content))
}

// contentWidth is the wrap width for the current nesting level.
func (r *markdownRenderer) contentWidth() int {
	width := r.width - 2*r.listDepth
	if width < 10 {
		width = 10
	}
	return width
}

// writeBlock emits a block-level chunk followed by a blank line.
func (r *markdownRenderer) writeBlock(content string) {
	if content == "" {
		return
	}
	r.output.WriteString(content)
	r.output.WriteString("\n\n")
}

// writeListLine emits one list item line with its bullet or number.
func (r *markdownRenderer) writeListLine(content string) {
	indent := strings.Repeat("  ", r.listDepth-1)
	bullet := "• "
	if counter := r.listCounter[len(r.listCounter)-1]; counter > 0 {
		bullet = fmt.Sprintf("%d. ", counter)
		r.listCounter[len(r.listCounter)-1]++
	}
	marker := r.newStyle().Foreground(r.theme.FaintText).Render(bullet)
	r.output.WriteString(indent + marker + content + "\n")
}

// renderTable renders a GFM table with padded columns and a rule under
// the header row. Receipts use tables for line items.
func (r *markdownRenderer) renderTable(table *extast.Table) {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(string(nodeText(cell, r.source))))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	widths := make([]int, 0)
	for _, cells := range rows {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := ansi.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	headerStyle := r.newStyle().Bold(true).Foreground(r.theme.HeaderForeground)
	cellStyle := r.newStyle().Foreground(r.theme.NormalText)

	var b strings.Builder
	for rowIndex, cells := range rows {
		for i, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[i]-ansi.StringWidth(cell))
			if rowIndex == 0 {
				b.WriteString(headerStyle.Render(padded))
			} else {
				b.WriteString(cellStyle.Render(padded))
			}
			if i < len(cells)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
		if rowIndex == 0 {
			total := 0
			for _, w := range widths {
				total += w + 2
			}
			if total > 2 {
				total -= 2
			}
			b.WriteString(r.newStyle().Foreground(r.theme.BorderColor).
				Render(strings.Repeat("─", min(total, r.width))))
			b.WriteString("\n")
		}
	}
	r.writeBlock(strings.TrimRight(b.String(), "\n"))
}

// nodeText collects the raw text under a node.
func nodeText(node ast.Node, source []byte) []byte {
	var out []byte
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			out = append(out, textNode.Segment.Value(source)...)
		} else {
			out = append(out, nodeText(child, source)...)
		}
	}
	return out
}
