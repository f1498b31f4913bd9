package interactive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/console"
	"github.com/joshyorko/btmgr/logbuf"
	"github.com/joshyorko/btmgr/notify"
)

const (
	scrollbackSize = 2000
	chromeHeight   = 3
)

// commandDoneMsg carries the result of one console command
type commandDoneMsg struct {
	output string
	err    error
}

// refreshMsg asks the shell to repaint the scrollback
type refreshMsg struct{}

// Shell is the bubbletea model of the full screen console
type Shell struct {
	ctx        context.Context
	console    *console.Console
	history    *CommandHistory
	scrollback *logbuf.Buffer
	styles     *Styles
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	width      int
	height     int
	running    bool
	quitting   bool
}

// NewShell creates the model. Nothing is drawn before the first window
// size arrives.
func NewShell(ctx context.Context, console *console.Console, history *CommandHistory) *Shell {
	styles := NewStyles()

	input := textinput.New()
	input.Prompt = console.Prompt() + " "
	input.PromptStyle = styles.Prompt
	input.Placeholder = "help"
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = styles.Spinner

	if history == nil {
		history = NewCommandHistory("")
	}
	return &Shell{
		ctx:        ctx,
		console:    console,
		history:    history,
		scrollback: logbuf.NewBuffer(scrollbackSize),
		styles:     styles,
		input:      input,
		viewport:   viewport.New(80, 20),
		spinner:    s,
		width:      80,
		height:     24,
	}
}

// Scrollback gives access to the lines shown by the shell
func (s *Shell) Scrollback() *logbuf.Buffer {
	return s.scrollback
}

// Sink puts notifications into the scrollback and wakes up the program.
func (s *Shell) Sink(program *tea.Program) notify.Sink {
	return notify.SinkFunc(func(notification notify.Notification) {
		s.scrollback.Add(logbuf.KindNotification, notification.String())
		go program.Send(refreshMsg{})
	})
}

// Intercept routes log lines into the scrollback while the program owns
// the terminal.
func (s *Shell) Intercept(program *tea.Program) func(string) bool {
	return func(message string) bool {
		s.scrollback.AddLog(message)
		go program.Send(refreshMsg{})
		return true
	}
}

// Init implements tea.Model
func (s *Shell) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case refreshMsg:
		s.refresh()
		return s, nil

	case spinner.TickMsg:
		if !s.running {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case commandDoneMsg:
		return s, s.finish(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			s.quitting = true
			return s, tea.Quit
		case key.Matches(msg, keys.PageUp, keys.PageDown):
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
		if s.running {
			return s, nil
		}
		switch {
		case key.Matches(msg, keys.Submit):
			return s, s.submit()
		case key.Matches(msg, keys.Complete):
			s.complete()
			return s, nil
		case key.Matches(msg, keys.HistoryUp):
			if line, ok := s.history.Previous(); ok {
				s.setInput(line)
			}
			return s, nil
		case key.Matches(msg, keys.HistoryDown):
			if line, ok := s.history.Next(); ok {
				s.setInput(line)
			}
			return s, nil
		case key.Matches(msg, keys.Clear):
			s.scrollback.Clear()
			s.refresh()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Shell) resize(width, height int) {
	s.width, s.height = width, height
	s.viewport.Width = width
	s.viewport.Height = max(height-chromeHeight, 1)
	s.input.Width = max(width-lipgloss.Width(s.input.Prompt)-1, 10)
	s.refresh()
}

func (s *Shell) setInput(line string) {
	s.input.SetValue(line)
	s.input.CursorEnd()
}

func (s *Shell) submit() tea.Cmd {
	line := strings.TrimSpace(s.input.Value())
	s.input.SetValue("")
	s.scrollback.Add(logbuf.KindCommand, s.console.Prompt()+" "+line)
	s.history.Add(line)
	if len(line) == 0 {
		s.refresh()
		return nil
	}
	s.running = true
	s.input.Blur()
	s.refresh()
	return tea.Batch(s.spinner.Tick, execute(s.ctx, s.console, line))
}

func execute(ctx context.Context, console *console.Console, line string) tea.Cmd {
	return func() tea.Msg {
		output, err := console.Execute(ctx, line)
		return commandDoneMsg{output: output, err: err}
	}
}

func (s *Shell) finish(done commandDoneMsg) tea.Cmd {
	s.running = false
	if len(done.output) > 0 {
		s.scrollback.Add(logbuf.KindOutput, done.output)
	}
	if done.err != nil {
		s.scrollback.Add(logbuf.KindError, fmt.Sprintf("Error: %v", done.err))
	}
	s.input.Prompt = s.console.Prompt() + " "
	s.refresh()
	if s.console.Finished() {
		s.quitting = true
		return tea.Quit
	}
	return s.input.Focus()
}

func (s *Shell) complete() {
	line := s.input.Value()
	candidates := s.console.Complete(line)
	completed, listing := applyCompletion(line, candidates)
	if len(listing) > 0 {
		s.scrollback.Add(logbuf.KindOutput, strings.Join(listing, "  "))
		s.refresh()
	}
	s.setInput(completed)
}

// applyCompletion puts the single candidate or the common prefix of many
// in place of the last word. Ambiguous completions also return the
// candidates for listing.
func applyCompletion(line string, candidates []string) (string, []string) {
	if len(candidates) == 0 {
		return line, nil
	}
	head, partial := splitLast(line)
	if len(candidates) == 1 {
		return head + candidates[0] + " ", nil
	}
	prefix := commonPrefix(candidates)
	if len(prefix) > len(partial) {
		return head + prefix, nil
	}
	return line, candidates
}

func splitLast(line string) (string, string) {
	cut := strings.LastIndexAny(line, " \t")
	return line[:cut+1], line[cut+1:]
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, word := range words[1:] {
		for !strings.HasPrefix(strings.ToLower(word), strings.ToLower(prefix)) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

func (s *Shell) refresh() {
	entries := s.scrollback.All()
	rows := make([]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, s.styles.Entry(entry.Kind).Render(entry.Message))
	}
	s.viewport.SetContent(strings.Join(rows, "\n"))
	s.viewport.GotoBottom()
}

// View implements tea.Model
func (s *Shell) View() string {
	if s.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.renderHeader())
	b.WriteString("\n")
	b.WriteString(s.viewport.View())
	b.WriteString("\n")
	if s.running {
		b.WriteString(s.spinner.View() + " " + s.styles.Subtle.Render("working..."))
	} else {
		b.WriteString(s.input.View())
	}
	b.WriteString("\n")
	b.WriteString(s.renderFooter())
	return b.String()
}

func (s *Shell) renderHeader() string {
	stats := s.scrollback.Stats()
	title := s.styles.Title.Render(common.Product.Name())
	status := s.styles.StatusKey.Render(fmt.Sprintf("notifications %d  subscriptions %d", stats.Notifications, s.console.Registry().Len()))
	if stats.Errors > 0 {
		status += s.styles.StatusBusy.Render(fmt.Sprintf("errors %d", stats.Errors))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", status)
}

func (s *Shell) renderFooter() string {
	parts := make([]string, 0, 8)
	for _, binding := range keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, s.styles.MenuKey.Render(help.Key)+" "+s.styles.MenuDesc.Render(help.Desc))
	}
	return strings.Join(parts, s.styles.Divider.Render(" • "))
}

// Run owns the terminal until exit, quit or ctrl+d. Notifications and log
// lines go into the scrollback while it runs.
func Run(ctx context.Context, console *console.Console, history *CommandHistory, relay *Relay) error {
	shell := NewShell(ctx, console, history)
	program := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(ctx))
	if relay != nil {
		relay.Attach(shell.Sink(program))
		defer relay.Detach()
	}
	common.SetLogInterceptor(shell.Intercept(program))
	defer common.ClearLogInterceptor()

	_, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
