// Package tui is the interactive front of postcraft: one view per workflow
// stage, driven by the shared workflow aggregate. All generation work runs
// inside commands; the model only reads state and issues operations.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"postcraft/internal/autosave"
	"postcraft/internal/generator"
	"postcraft/internal/workflow"
)

// Deps are the collaborators the TUI drives. One set per session.
type Deps struct {
	Workflow  *workflow.Workflow
	Generator *generator.Generator
	Saver     *autosave.Saver
}

// Run starts the TUI application.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Model is the main Bubble Tea model. The active view follows the workflow
// stage; sub-models hold presentation state only.
type Model struct {
	deps Deps

	input      inputModel
	outline    outlineModel
	generating generatingModel
	result     resultModel

	// rendering is set while a bulk image run is in flight; it keeps the
	// tick loop alive across the outline→generating stage transition.
	rendering bool

	width  int
	height int
}

func newModel(deps Deps) Model {
	return Model{
		deps:       deps,
		input:      newInputModel(deps.Workflow.Topic()),
		outline:    newOutlineModel(),
		generating: newGeneratingModel(),
		result:     newResultModel(),
	}
}

// Messages shared across views.

type outlineDoneMsg struct{ err error }

type generationDoneMsg struct{ err error }

type contentDoneMsg struct{ err error }

type retryDoneMsg struct{}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func generateOutlineCmd(deps Deps, topic string) tea.Cmd {
	return func() tea.Msg {
		return outlineDoneMsg{err: deps.Generator.GenerateOutline(context.Background(), topic)}
	}
}

func generateImagesCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return generationDoneMsg{err: deps.Generator.GenerateImages(context.Background())}
	}
}

func generateContentCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return contentDoneMsg{err: deps.Generator.GenerateContent(context.Background())}
	}
}

func retryFailedCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		deps.Generator.RegenerateFailed(context.Background())
		return retryDoneMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	// A restored session may resume mid-generation; keep the view ticking.
	if m.deps.Workflow.Stage() == workflow.StageGenerating {
		return tea.Batch(m.generating.init(), tick())
	}
	return m.input.init()
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.rendering || m.deps.Workflow.Progress().Status == workflow.StatusGenerating {
		return m, tick()
	}
	return m, nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		return m.handleTick()
	case generationDoneMsg:
		m.rendering = false
	}

	switch m.deps.Workflow.Stage() {
	case workflow.StageOutline:
		return m.outline.update(m, msg)
	case workflow.StageGenerating:
		return m.generating.update(m, msg)
	case workflow.StageResult:
		return m.result.update(m, msg)
	default:
		return m.input.update(m, msg)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.deps.Workflow.Stage() {
	case workflow.StageOutline:
		return m.outline.view(m)
	case workflow.StageGenerating:
		return m.generating.view(m)
	case workflow.StageResult:
		return m.result.view(m)
	default:
		return m.input.view(m)
	}
}
