package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/grove/internal/session"
	"github.com/ayoisaiah/grove/internal/timeutil"
)

var (
	baseStyle = lipgloss.NewStyle().Padding(1, padding)

	mainStyle = lipgloss.NewStyle().Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6c6c6c", Dark: "#9a9a9a"})

	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B0DB43"))

	shortBreakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#12EAEA"))

	longBreakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C492B1"))
)

// formatTimeRemaining returns the cached remaining time formatted as
// "MM:SS".
func formatTimeRemaining(timeLeft int) string {
	mins, secs := timeutil.SecsToMinsAndSecs(timeLeft)

	return fmt.Sprintf("%02d:%02d", mins, secs)
}

func (m *Model) sessionTitleView(st session.State) string {
	label := fmt.Sprintf("[%s]", st.Label())

	switch st.Type {
	case session.Focus:
		return focusStyle.Render(label)
	case session.ShortBreak:
		return shortBreakStyle.Render(label)
	case session.LongBreak:
		return longBreakStyle.Render(label)
	}

	return label
}

func (m *Model) timerView(st session.State) string {
	var s strings.Builder

	s.WriteString(m.sessionTitleView(st))

	switch st.Status {
	case session.Running:
		s.WriteString(
			hintStyle.Render(" until " + st.EndTime.Format("03:04:05 PM")),
		)
	case session.Paused:
		s.WriteString(hintStyle.Render(" [paused]"))
	case session.Completed:
		s.WriteString(hintStyle.Render(" [done]"))
	}

	if st.Type == session.Focus {
		cycle := (st.Number-1)%st.Config.SessionsUntilLongBreak + 1

		s.WriteString(hintStyle.Render(
			fmt.Sprintf(" (%d/%d)", cycle, st.Config.SessionsUntilLongBreak),
		))
	}

	s.WriteString("\n\n")
	s.WriteString(mainStyle.Render(formatTimeRemaining(st.TimeLeft)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(st.ProgressPercent() / 100))
	s.WriteString(m.helpView(st))

	return s.String()
}

func (m *Model) helpView(st session.State) string {
	bindings := []key.Binding{m.keymap.togglePlay}

	if st.Status == session.Idle || st.Status == session.Completed {
		bindings = append(bindings, m.keymap.skip)
	}

	bindings = append(bindings, m.keymap.reset, m.keymap.quit)

	return "\n\n" + m.help.ShortHelpView(bindings)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return baseStyle.Render(m.timerView(m.engine.State()))
}
