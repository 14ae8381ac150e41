package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"postcraft/internal/workflow"
)

// generatingModel is the bulk image generation view. It polls workflow
// state on a timer while pages render in the background.
type generatingModel struct {
	spin   spinner.Model
	errMsg string
}

func newGeneratingModel() generatingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle
	return generatingModel{spin: s}
}

func (v generatingModel) init() tea.Cmd {
	return v.spin.Tick
}

func (v generatingModel) update(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generationDoneMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		}
		m.generating = v
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		m.generating = v
		return m, cmd
	}
	return m, nil
}

func (v generatingModel) view(m Model) string {
	progress := m.deps.Workflow.Progress()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Generating images") + "\n\n")

	bar := progressBar{current: progress.Current, total: progress.Total, width: 24}
	b.WriteString(v.spin.View() + " " + bar.view() + "\n\n")

	for _, img := range m.deps.Workflow.Images() {
		b.WriteString(imageLine(img) + "\n")
	}

	if v.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(v.errMsg) + "\n")
	}

	b.WriteString("\n" + subtleStyle.Render("ctrl+c: quit"))
	return b.String()
}

func imageLine(img workflow.GeneratedImage) string {
	label := fmt.Sprintf("page %d", img.Index+1)
	switch img.Status {
	case workflow.ImageDone:
		return successStyle.Render("✓ " + label)
	case workflow.ImageError:
		return errorStyle.Render(fmt.Sprintf("✗ %s: %s", label, img.Error))
	case workflow.ImageRetrying:
		return fmt.Sprintf("… %s (retrying)", label)
	default:
		if img.Progress > 0 {
			return fmt.Sprintf("… %s %d%%", label, img.Progress)
		}
		return fmt.Sprintf("… %s", label)
	}
}
