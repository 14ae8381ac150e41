package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"postcraft/internal/workflow"
)

// inputModel is the topic entry view.
type inputModel struct {
	topic   textinput.Model
	spin    spinner.Model
	waiting bool
	errMsg  string
}

func newInputModel(topic string) inputModel {
	ti := textinput.New()
	ti.Placeholder = "What should this post be about?"
	ti.CharLimit = 200
	ti.Width = 60
	ti.SetValue(topic)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle

	return inputModel{topic: ti, spin: s}
}

func (v inputModel) init() tea.Cmd {
	return textinput.Blink
}

func (v inputModel) update(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.waiting {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			topic := strings.TrimSpace(v.topic.Value())
			if topic == "" {
				return m, nil
			}
			v.waiting = true
			v.errMsg = ""
			m.input = v
			return m, tea.Batch(v.spin.Tick, generateOutlineCmd(m.deps, topic))
		case "esc":
			return m, tea.Quit
		}
	case outlineDoneMsg:
		v.waiting = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		}
		m.input = v
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		m.input = v
		return m, cmd
	}

	var cmd tea.Cmd
	v.topic, cmd = v.topic.Update(msg)
	m.input = v
	return m, cmd
}

func (v inputModel) view(m Model) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("postcraft") + "\n\n")
	b.WriteString("Topic:\n")
	b.WriteString(v.topic.View() + "\n\n")

	if v.waiting || m.deps.Workflow.OutlineStatus() == workflow.StatusGenerating {
		b.WriteString(v.spin.View() + " generating outline...\n")
	} else if v.errMsg != "" {
		b.WriteString(errorStyle.Render("outline generation failed: "+v.errMsg) + "\n")
	}

	b.WriteString("\n" + subtleStyle.Render("enter: generate outline • esc: quit"))
	return b.String()
}
