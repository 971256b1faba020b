// Package theme provides the visual theme for the riskview TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents the complete visual theme for the application.
type Theme struct {
	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Element type colors
	Gate       lipgloss.Color
	BasicEvent lipgloss.Color
	HouseEvent lipgloss.Color

	// UI element colors
	Border    lipgloss.Color
	Selection lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0d1117"),
		Surface: lipgloss.Color("#161b22"),
		Muted:   lipgloss.Color("#484f58"),
		Subtle:  lipgloss.Color("#6e7681"),
		Text:    lipgloss.Color("#e6edf3"),

		Primary:   lipgloss.Color("#58a6ff"),
		Secondary: lipgloss.Color("#bc8cff"),

		Success: lipgloss.Color("#3fb950"),
		Warning: lipgloss.Color("#d29922"),
		Error:   lipgloss.Color("#f85149"),

		Gate:       lipgloss.Color("#a371f7"),
		BasicEvent: lipgloss.Color("#7ee787"),
		HouseEvent: lipgloss.Color("#79c0ff"),

		Border:    lipgloss.Color("#30363d"),
		Selection: lipgloss.Color("#388bfd"),
	}
}

// Styles holds all pre-configured styles for the UI.
type Styles struct {
	theme *Theme

	// Layout styles
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Sidebar lipgloss.Style
	Content lipgloss.Style

	// Navigation styles
	NavItem         lipgloss.Style
	NavItemSelected lipgloss.Style
	NavItemInert    lipgloss.Style

	// Tab bar styles
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	// Element type styles
	Gate       lipgloss.Style
	BasicEvent lipgloss.Style
	HouseEvent lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style

	// Overlay styles
	Overlay lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *Theme) *Styles {
	if t == nil {
		t = DefaultTheme()
	}

	s := &Styles{theme: t}

	s.Header = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Bold(true).
		Padding(0, 1)

	s.Footer = lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	s.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(t.Border).
		Padding(0, 1)

	s.Content = lipgloss.NewStyle().
		Padding(0, 1)

	s.NavItem = lipgloss.NewStyle().
		Foreground(t.Text)

	s.NavItemSelected = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Selection).
		Bold(true)

	s.NavItemInert = lipgloss.NewStyle().
		Foreground(t.Subtle)

	s.Tab = lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	s.TabActive = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Bold(true).
		Padding(0, 1)

	s.Success = lipgloss.NewStyle().Foreground(t.Success)
	s.Warning = lipgloss.NewStyle().Foreground(t.Warning)
	s.Error = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(t.Muted)

	s.Gate = lipgloss.NewStyle().Foreground(t.Gate).Bold(true)
	s.BasicEvent = lipgloss.NewStyle().Foreground(t.BasicEvent)
	s.HouseEvent = lipgloss.NewStyle().Foreground(t.HouseEvent)

	s.TableHeader = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Padding(0, 1)

	s.TableCell = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	s.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Bold(true)

	return s
}

// Theme returns the underlying theme.
func (s *Styles) Theme() *Theme {
	return s.theme
}
