package downloader

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	uiHeaderStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(lipgloss.Color("#7FDBFF")).
			Padding(0, 1)
	uiPrefixStyle = lipgloss.NewStyle().Faint(true)
)

type uiLineMsg struct {
	text string
}

type uiProgressMsg struct {
	prefix  string
	current int64
	total   int64
}

// runUI renders the interactive run view: completed items scroll up as
// plain lines while the bottom area shows the in-flight download's bar.
type runUI struct {
	program *tea.Program
	done    chan struct{}
}

func newRunUI(header string) *runUI {
	model := &runModel{
		header: header,
		bar:    progress.New(progress.WithDefaultGradient()),
		width:  80,
	}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	ui := &runUI{program: p, done: make(chan struct{})}
	go func() {
		_, _ = p.Run()
		close(ui.done)
	}()
	return ui
}

// Line prints a finished line above the managed progress area.
func (u *runUI) Line(text string) {
	u.program.Send(uiLineMsg{text: text})
}

// Progress updates the in-flight bar. An empty prefix clears it.
func (u *runUI) Progress(prefix string, current, total int64) {
	u.program.Send(uiProgressMsg{prefix: prefix, current: current, total: total})
}

func (u *runUI) Stop() {
	u.program.Quit()
	<-u.done
}

type runModel struct {
	header  string
	bar     progress.Model
	width   int
	prefix  string
	current int64
	total   int64
}

func (m *runModel) Init() tea.Cmd {
	return nil
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
		m.bar.Width = barWidth
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case uiLineMsg:
		return m, tea.Println(msg.text)
	case uiProgressMsg:
		m.prefix = msg.prefix
		m.current = msg.current
		m.total = msg.total
		return m, nil
	}
	return m, nil
}

func (m *runModel) View() string {
	view := uiHeaderStyle.Render(m.header) + "\n"
	if m.prefix == "" {
		return view
	}
	if m.total > 0 {
		percent := float64(m.current) / float64(m.total)
		if percent > 1 {
			percent = 1
		}
		view += fmt.Sprintf("%s %s %s / %s\n",
			uiPrefixStyle.Render(m.prefix),
			m.bar.ViewAs(percent),
			humanBytes(m.current), humanBytes(m.total))
	} else {
		view += fmt.Sprintf("%s %s\n", uiPrefixStyle.Render(m.prefix), humanBytes(m.current))
	}
	return view
}
