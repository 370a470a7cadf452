package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and box border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Badge                   lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
}

var (
	current = classic()
	noColor bool
)

// SetTheme picks classic, neon or mono. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
	if noColor {
		current = uncolored(current)
	}
}

// DisableColor strips colors from the current and any later theme.
func DisableColor(off bool) {
	noColor = off
	if off {
		current = uncolored(current)
	}
}

func Current() Theme { return current }

// Themes lists the accepted theme names.
func Themes() []string { return []string{"classic", "neon", "mono"} }

func classic() Theme {
	return Theme{
		Name:         "classic",
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:         lipgloss.NewStyle().Faint(true),
		Badge:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		SymDone:      "✔",
		SymPending:   "•",
		Border:       lipgloss.RoundedBorder(),
		BorderColor:  lipgloss.Color("8"),
	}
}

func neon() Theme {
	return Theme{
		Name:         "neon",
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Badge:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		BoxUnchecked: "◻",
		BoxChecked:   "◼",
		SymDone:      "✔",
		SymPending:   "•",
		Border:       lipgloss.RoundedBorder(),
		BorderColor:  lipgloss.Color("13"),
	}
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:         "mono",
		Title:        plain,
		Muted:        plain,
		Accent:       plain,
		Success:      plain,
		Error:        plain,
		Pending:      plain,
		Selected:     plain,
		Done:         plain,
		Help:         plain,
		Badge:        plain,
		BoxUnchecked: "[ ]",
		BoxChecked:   "[x]",
		SymDone:      "x",
		SymPending:   "-",
		Border:       lipgloss.ASCIIBorder(),
		BorderColor:  lipgloss.NoColor{},
	}
}

// uncolored keeps the theme's symbols and drops every style.
func uncolored(t Theme) Theme {
	m := mono()
	m.Name = t.Name
	m.BoxUnchecked, m.BoxChecked = t.BoxUnchecked, t.BoxChecked
	m.SymDone, m.SymPending = t.SymDone, t.SymPending
	m.Border = t.Border
	return m
}
