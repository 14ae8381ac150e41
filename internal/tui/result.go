package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"postcraft/internal/workflow"
)

// resultModel is the post-generation view: rendered images, content
// generation and retry of failed pages.
type resultModel struct {
	spin       spinner.Model
	contentBsy bool
	retryBsy   bool
	statusMsg  string
	errMsg     string
}

func newResultModel() resultModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedStyle
	return resultModel{spin: s}
}

func (v resultModel) update(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			if v.contentBsy {
				return m, nil
			}
			v.contentBsy = true
			v.statusMsg = ""
			v.errMsg = ""
			m.result = v
			return m, tea.Batch(v.spin.Tick, generateContentCmd(m.deps))
		case "r":
			if v.retryBsy || !m.deps.Workflow.HasFailedImages() {
				return m, nil
			}
			v.retryBsy = true
			v.statusMsg = ""
			v.errMsg = ""
			m.result = v
			return m, tea.Batch(v.spin.Tick, retryFailedCmd(m.deps))
		case "t":
			v = v.copyToClipboard("titles", strings.Join(m.deps.Workflow.Content().Titles, "\n"))
		case "y":
			v = v.copyToClipboard("copywriting", m.deps.Workflow.Content().Copywriting)
		case "g":
			v = v.copyToClipboard("tags", strings.Join(m.deps.Workflow.Content().Tags, " "))
		case "n":
			m.deps.Saver.Reset()
			m.input = newInputModel("")
			m.result = newResultModel()
			return m, m.input.init()
		case "q":
			return m, tea.Quit
		}
	case contentDoneMsg:
		v.contentBsy = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		}
	case retryDoneMsg:
		v.retryBsy = false
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		m.result = v
		return m, cmd
	}

	m.result = v
	return m, nil
}

func (v resultModel) copyToClipboard(what, text string) resultModel {
	if text == "" {
		v.statusMsg = "nothing to copy, generate content first"
		return v
	}
	if err := clipboard.WriteAll(text); err != nil {
		v.errMsg = fmt.Sprintf("failed to copy %s: %v", what, err)
		return v
	}
	v.statusMsg = what + " copied to clipboard"
	return v
}

func (v resultModel) view(m Model) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Result: "+m.deps.Workflow.Topic()) + "\n\n")

	for _, img := range m.deps.Workflow.Images() {
		switch img.Status {
		case workflow.ImageDone:
			b.WriteString(successStyle.Render(fmt.Sprintf("✓ page %d", img.Index+1)) + "  " + subtleStyle.Render(img.URL) + "\n")
		case workflow.ImageError:
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ page %d: %s", img.Index+1, img.Error)) + "\n")
		default:
			b.WriteString(fmt.Sprintf("… page %d\n", img.Index+1))
		}
	}

	if failed := m.deps.Workflow.FailedPages(); len(failed) > 0 && !v.retryBsy {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("%d page(s) failed, press r to retry", len(failed))) + "\n")
	}

	b.WriteString("\n" + v.contentSection(m))

	if v.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render(v.statusMsg) + "\n")
	}
	if v.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(v.errMsg) + "\n")
	}
	if m.deps.Saver.IsSaving() {
		b.WriteString("\n" + subtleStyle.Render("saving..."))
	}

	b.WriteString("\n" + subtleStyle.Render("c: generate content • r: retry failed • t/y/g: copy titles/copy/tags • n: new post • q: quit"))
	return b.String()
}

func (v resultModel) contentSection(m Model) string {
	if v.contentBsy || v.retryBsy {
		return v.spin.View() + " working...\n"
	}

	content := m.deps.Workflow.Content()
	switch content.Status {
	case workflow.StatusDone:
		var b strings.Builder
		b.WriteString(selectedStyle.Render("Titles") + "\n")
		for _, t := range content.Titles {
			b.WriteString("  " + t + "\n")
		}
		b.WriteString(selectedStyle.Render("Copywriting") + "\n")
		b.WriteString("  " + firstLine(content.Copywriting) + "\n")
		b.WriteString(selectedStyle.Render("Tags") + "\n")
		b.WriteString("  " + strings.Join(content.Tags, " ") + "\n")
		return b.String()
	case workflow.StatusError:
		return errorStyle.Render("content: "+content.Error) + "\n"
	default:
		return subtleStyle.Render("press c to generate titles, copywriting and tags") + "\n"
	}
}
