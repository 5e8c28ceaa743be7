// Package theme provides the styles used when schemagen writes to a
// terminal. Every visual element references a lipgloss.Style held in a Theme
// struct so the whole palette can be switched from the config file.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds lipgloss.Style values for every styled element of the output.
type Theme struct {
	Name string

	// SQL syntax highlighting
	SQLKeyword    lipgloss.Style
	SQLString     lipgloss.Style
	SQLNumber     lipgloss.Style
	SQLComment    lipgloss.Style
	SQLOperator   lipgloss.Style
	SQLFunction   lipgloss.Style
	SQLType       lipgloss.Style
	SQLIdentifier lipgloss.Style

	// Listings and the table picker
	Heading     lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	MutedText   lipgloss.Style
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

// newDefaultTheme builds the default dark theme.
func newDefaultTheme() *Theme {
	return &Theme{
		Name: "default",

		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CE9178")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B5CEA8")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6A9955")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DCDCAA")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4EC9B0")),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CDCFE")),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#264F78")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F44747")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6A9955")),
	}
}

// newLightTheme builds a theme for light terminal backgrounds.
func newLightTheme() *Theme {
	return &Theme{
		Name: "light",

		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000FF")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A31515")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#098658")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#008000")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#795E26")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#267F99")),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#001080")),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000FF")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#ADD6FF")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E6E6E")),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CD3131")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#008000")),
	}
}

// newMonokaiTheme builds a Monokai-inspired dark theme.
func newMonokaiTheme() *Theme {
	return &Theme{
		Name: "monokai",

		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6DB74")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AE81FF")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#75715E")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F92672")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
		SQLType: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#66D9EF")),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E22E")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#272822")).
			Background(lipgloss.Color("#A6E22E")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
	}
}

// newMonoTheme builds a colourless theme that only uses text attributes.
func newMonoTheme() *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Name: "mono",

		SQLKeyword:    plain.Bold(true),
		SQLString:     plain,
		SQLNumber:     plain,
		SQLComment:    plain.Faint(true),
		SQLOperator:   plain,
		SQLFunction:   plain,
		SQLType:       plain.Underline(true),
		SQLIdentifier: plain,

		Heading:     plain.Bold(true),
		Item:        plain,
		Selected:    plain.Reverse(true),
		MutedText:   plain.Faint(true),
		ErrorText:   plain.Bold(true),
		SuccessText: plain,
	}
}

// ---------------------------------------------------------------------------
// Registry and accessors
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
	"monokai": newMonokaiTheme(),
	"mono":    newMonoTheme(),
}

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}

// Names returns the registered theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
