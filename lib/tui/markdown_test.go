// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

const sampleReceipt = `# Receipt

Session ` + "`CART-1000`" + ` — Sat, 14 Mar 2026 10:00:00 UTC

| Item | Qty | Amount |
|---|---|---|
| Bananas | 2 | $2.58 |
| Cheddar Cheese | 1 | $4.99 |

Subtotal: $7.57

Tax: $0.40

**Total: $7.97**
`

func TestRenderMarkdownReceipt(t *testing.T) {
	output := RenderMarkdown(sampleReceipt, DefaultTheme, 60)
	plain := ansi.Strip(output)

	for _, want := range []string{"Receipt", "Bananas", "Cheddar Cheese", "$2.58", "Total: $7.97"} {
		if !strings.Contains(plain, want) {
			t.Errorf("rendered receipt missing %q\n%s", want, plain)
		}
	}

	// Table pipes are layout syntax, not content.
	if strings.Contains(plain, "|") {
		t.Error("rendered receipt leaked raw table syntax")
	}
	// Output is styled, not plain text.
	if output == plain {
		t.Error("rendered receipt carries no ANSI styling")
	}
}

func TestRenderMarkdownWrapsLongLines(t *testing.T) {
	input := strings.Repeat("wrapped words flow onward ", 10)
	output := RenderMarkdown(input, DefaultTheme, 40)
	for _, line := range strings.Split(ansi.Strip(output), "\n") {
		if got := ansi.StringWidth(line); got > 40 {
			t.Errorf("line width %d exceeds wrap width: %q", got, line)
		}
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	output := ansi.Strip(RenderMarkdown("- first\n- second\n\n1. one\n2. two\n", DefaultTheme, 60))
	for _, want := range []string{"• first", "• second", "1. one", "2. two"} {
		if !strings.Contains(output, want) {
			t.Errorf("list rendering missing %q\n%s", want, output)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("", DefaultTheme, 60); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
	if got := RenderMarkdown("   \n\n", DefaultTheme, 60); got != "" {
		t.Errorf("whitespace input rendered %q", got)
	}
}
