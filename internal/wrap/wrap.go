// Package wrap prints item lists within a left indent and a right-hand
// character limit, filling each line greedily.
package wrap

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// DefaultSeparator is placed between items on a line.
const DefaultSeparator = ", "

// Printer lays out items in lines of at most Limit characters. Items are
// never split: an item too wide for a line by itself gets a line of its own
// and overruns the limit.
//
// Printer holds no per-call state, so a single value may be shared.
type Printer struct {
	// Indent is the number of spaces in front of every line but the first.
	Indent int
	// Limit is the right-hand character position lines should not pass.
	Limit int
	// Separator is placed between items on the same line. A line that is
	// followed by another ends with the separator minus trailing blanks.
	Separator string
	// FirstIndent is the number of spaces in front of the first line when it
	// differs from Indent. The zero value suits output that continues text
	// already printed on the current line.
	FirstIndent int
	// ItemsPerLine caps the items on a line; values <= 0 mean no cap.
	ItemsPerLine int
}

// New returns a Printer with the default separator, a zero first indent
// and no per-line item cap.
func New(indent, limit int) *Printer {
	return &Printer{
		Indent:    indent,
		Limit:     limit,
		Separator: DefaultSeparator,
	}
}

// Width returns the number of characters available to items on a line.
func (p *Printer) Width() int {
	return p.Limit - p.Indent
}

// Lines lays out items and returns the formatted lines, indentation and
// line terminators included but without newlines.
func (p *Printer) Lines(items []string) []string {
	var (
		out     []string
		line    []string
		accrued int
	)
	sepLen := len(p.Separator)
	width := p.Width()
	terminator := strings.TrimRightFunc(p.Separator, unicode.IsSpace)

	flush := func(final bool) {
		indent := p.Indent
		if len(out) == 0 && p.FirstIndent != p.Indent {
			indent = p.FirstIndent
		}
		text := strings.Repeat(" ", max(indent, 0)) + strings.Join(line, p.Separator)
		if !final {
			text += terminator
		}
		out = append(out, text)
	}

	for _, item := range items {
		itemLen := len(item) + sepLen
		fits := accrued+itemLen <= width && (p.ItemsPerLine <= 0 || len(line) < p.ItemsPerLine)
		if len(line) == 0 || fits {
			line = append(line, item)
			accrued += itemLen
			continue
		}
		flush(false)
		line = []string{item}
		accrued = itemLen
	}
	if len(line) > 0 {
		flush(true)
	}
	return out
}

// Print writes the lines for items to w, separated by newlines. No newline
// follows the final line so callers can close the list on the same line.
func (p *Printer) Print(w io.Writer, items []string) error {
	lines := p.Lines(items)
	if len(lines) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("wrap: %w", err)
	}
	return nil
}

// Ruler returns a position ruler 1..limit where each position shows its
// last digit and every tenth position is rendered with mark. It helps check
// output against the limit by eye.
func Ruler(limit int, mark lipgloss.Style) string {
	var b strings.Builder
	for pos := 1; pos <= limit; pos++ {
		digit := fmt.Sprintf("%d", pos%10)
		if pos%10 == 0 {
			b.WriteString(mark.Render(digit))
			continue
		}
		b.WriteString(digit)
	}
	return b.String()
}
