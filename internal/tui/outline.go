package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"postcraft/internal/outline"
)

// outlineModel is the outline editing view: a page list with cursor
// navigation plus an inline editor for one page at a time.
type outlineModel struct {
	cursor  int
	editing bool
	editor  textarea.Model
	errMsg  string
}

func newOutlineModel() outlineModel {
	ta := textarea.New()
	ta.SetHeight(6)
	ta.SetWidth(70)
	ta.CharLimit = 2000
	return outlineModel{editor: ta}
}

func (v outlineModel) update(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	pages := m.deps.Workflow.Outline().Pages

	if v.editing {
		return v.updateEditor(m, msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(pages)-1 {
				v.cursor++
			}
		case "K":
			if v.cursor > 0 {
				m.deps.Workflow.MovePage(v.cursor, v.cursor-1)
				m.deps.Saver.NoteChange()
				v.cursor--
			}
		case "J":
			if v.cursor < len(pages)-1 {
				m.deps.Workflow.MovePage(v.cursor, v.cursor+1)
				m.deps.Saver.NoteChange()
				v.cursor++
			}
		case "e", "enter":
			if v.cursor < len(pages) {
				v.editing = true
				v.editor.SetValue(pages[v.cursor].Content)
				v.editor.Focus()
			}
		case "a":
			m.deps.Workflow.AddPage(outline.PageTypeContent, "")
			m.deps.Saver.NoteChange()
			v.cursor = len(pages)
			v.editing = true
			v.editor.SetValue("")
			v.editor.Focus()
		case "i":
			if v.cursor < len(pages) {
				m.deps.Workflow.InsertPage(v.cursor, outline.PageTypeContent, "")
				m.deps.Saver.NoteChange()
				v.cursor++
				v.editing = true
				v.editor.SetValue("")
				v.editor.Focus()
			}
		case "d":
			if v.cursor < len(pages) {
				m.deps.Workflow.DeletePage(pages[v.cursor].Index)
				m.deps.Saver.NoteChange()
				if v.cursor > 0 && v.cursor >= len(pages)-1 {
					v.cursor--
				}
			}
		case "g":
			v.errMsg = ""
			m.outline = v
			m.rendering = true
			return m, tea.Batch(generateImagesCmd(m.deps), m.generating.init(), tick())
		case "q":
			return m, tea.Quit
		}
	case generationDoneMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
		}
	}

	m.outline = v
	return m, nil
}

func (v outlineModel) updateEditor(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			v.editing = false
			v.editor.Blur()
			m.outline = v
			return m, nil
		case "ctrl+s":
			pages := m.deps.Workflow.Outline().Pages
			if v.cursor < len(pages) {
				m.deps.Workflow.UpdatePage(pages[v.cursor].Index, v.editor.Value())
				m.deps.Saver.NoteChange()
			}
			v.editing = false
			v.editor.Blur()
			m.outline = v
			return m, nil
		}
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	m.outline = v
	return m, cmd
}

func (v outlineModel) view(m Model) string {
	o := m.deps.Workflow.Outline()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Outline: "+m.deps.Workflow.Topic()) + "\n\n")

	for i, p := range o.Pages {
		line := fmt.Sprintf("%d. [%s] %s", p.Index+1, p.Type, firstLine(p.Content))
		if i == v.cursor && !v.editing {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if v.editing {
		b.WriteString("\n" + v.editor.View() + "\n")
		b.WriteString(subtleStyle.Render("ctrl+s: save • esc: cancel"))
		return b.String()
	}

	if v.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(v.errMsg) + "\n")
	}
	if m.deps.Saver.IsSaving() {
		b.WriteString("\n" + subtleStyle.Render("saving..."))
	}

	b.WriteString("\n" + subtleStyle.Render("e: edit • a: add • i: insert • d: delete • J/K: move • g: generate images • q: quit"))
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:60] + "..."
	}
	if s == "" {
		s = "(empty)"
	}
	return s
}
