// Package tui renders the interactive timer view. It subscribes to the
// timer engine for state and never owns timing itself: every frame is
// drawn from an engine snapshot, and the engine alone decides when an
// interval is over.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/grove/internal/session"
	"github.com/ayoisaiah/grove/timer"
)

const (
	padding  = 2
	maxWidth = 80
)

// frameInterval controls how often the view redraws. Redraw frequency has
// no bearing on timing correctness.
const frameInterval = 250 * time.Millisecond

type frameMsg time.Time

// RefreshMsg asks the view to redraw immediately. The application sends it
// from the engine's subscription hub so committed transitions show up
// without waiting for the next frame.
type RefreshMsg struct{}

// Model is the bubbletea model for the timer view.
type Model struct {
	engine   *timer.Engine
	help     help.Model
	progress progress.Model
	keymap   keymap
	quitting bool
}

func New(engine *timer.Engine) *Model {
	return &Model{
		engine:   engine,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		keymap:   defaultKeymap,
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return frame()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m, frame()

	case RefreshMsg:
		return m, nil

	case tea.FocusMsg:
		// The frame ticks may have been suspended while the terminal was
		// hidden; settle the interval from its deadline right away.
		m.engine.Wake()

		return m, nil

	case tea.KeyMsg:
		slog.Debug(spew.Sdump(msg))

		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.togglePlay):
		switch m.engine.State().Status {
		case session.Running:
			m.engine.Pause()
		case session.Paused:
			m.engine.Resume()
		default:
			m.engine.Start()
		}

		return m, nil

	case key.Matches(msg, m.keymap.skip):
		m.engine.Skip()

		return m, nil

	case key.Matches(msg, m.keymap.reset):
		m.engine.Reset()

		return m, nil

	case key.Matches(msg, m.keymap.quit):
		m.quitting = true

		return m, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return m, nil
}
