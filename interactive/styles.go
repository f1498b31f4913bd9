package interactive

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joshyorko/btmgr/logbuf"
)

// Styles holds the lipgloss styles of the shell.
type Styles struct {
	theme Theme

	Title      lipgloss.Style
	Prompt     lipgloss.Style
	Command    lipgloss.Style
	Output     lipgloss.Style
	Subtle     lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Notice     lipgloss.Style
	Divider    lipgloss.Style
	StatusKey  lipgloss.Style
	StatusBusy lipgloss.Style
	MenuKey    lipgloss.Style
	MenuDesc   lipgloss.Style
	Spinner    lipgloss.Style
}

// NewStyles creates a new Styles instance using the DefaultTheme
func NewStyles() *Styles {
	return NewStylesWithTheme(DefaultTheme())
}

// NewStylesWithTheme creates styles using a specific theme
func NewStylesWithTheme(theme Theme) *Styles {
	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.TextBright).
			Background(theme.Primary).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Command: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Output: lipgloss.NewStyle().
			Foreground(theme.Text),

		Subtle: lipgloss.NewStyle().
			Foreground(theme.TextMuted),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Divider: lipgloss.NewStyle().
			Foreground(theme.BorderDim),

		StatusKey: lipgloss.NewStyle().
			Foreground(theme.TextMuted).
			Background(theme.Surface).
			Padding(0, 1),

		StatusBusy: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Background(theme.Surface).
			Padding(0, 1),

		MenuKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		MenuDesc: lipgloss.NewStyle().
			Foreground(theme.TextMuted),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),
	}
}

// Entry picks the style of one scrollback line
func (s *Styles) Entry(kind logbuf.Kind) lipgloss.Style {
	switch kind {
	case logbuf.KindCommand:
		return s.Command
	case logbuf.KindNotification:
		return s.Notice
	case logbuf.KindLog:
		return s.Subtle
	case logbuf.KindWarning:
		return s.Warning
	case logbuf.KindError:
		return s.Error
	default:
		return s.Output
	}
}
