// Package generator orchestrates the generation flows: outline from topic,
// bulk per-page image rendering, single-page regeneration and the content
// sub-generation cycle. It drives the workflow aggregate and leaves all
// provider details behind the render and history boundaries.
package generator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"postcraft/internal/autosave"
	"postcraft/internal/history"
	"postcraft/internal/outline"
	"postcraft/internal/render"
	"postcraft/internal/workflow"
)

var (
	// ErrGenerationInFlight is returned when a bulk run is already active.
	ErrGenerationInFlight = errors.New("a generation run is already in flight")
	// ErrNoPages is returned when generation starts on an empty outline.
	ErrNoPages = errors.New("outline has no pages")
	// ErrPageNotFailed is returned when regenerating a page that did not fail.
	ErrPageNotFailed = errors.New("page image is not in a failed state")
)

// ContentAPI is the slice of the backend the generator needs.
type ContentAPI interface {
	GenerateOutline(ctx context.Context, topic string) (string, error)
	GenerateContent(ctx context.Context, topic, rawOutline string) (*history.Content, error)
}

// Generator runs generation flows for one workflow session.
type Generator struct {
	wf       *workflow.Workflow
	renderer render.Renderer
	api      ContentAPI
	saver    *autosave.Saver
	workers  int
	log      *logrus.Entry
}

// New creates a generator. workers bounds concurrent page renders per run.
func New(wf *workflow.Workflow, renderer render.Renderer, api ContentAPI, saver *autosave.Saver, workers int, log *logrus.Entry) *Generator {
	if workers < 1 {
		workers = 1
	}
	return &Generator{wf: wf, renderer: renderer, api: api, saver: saver, workers: workers, log: log}
}

// GenerateOutline produces an outline for the topic and installs it, moving
// the workflow into the outline stage.
func (g *Generator) GenerateOutline(ctx context.Context, topic string) error {
	g.wf.SetTopic(topic)
	g.wf.BeginOutlineGeneration()

	raw, err := g.api.GenerateOutline(ctx, topic)
	if err != nil {
		g.wf.FailOutlineGeneration()
		return err
	}

	o := outline.Parse(raw)
	if g.wf.SetOutline(o.Raw, o.Pages) {
		g.saver.NoteChange()
	}
	return nil
}

// GenerateImages runs bulk generation: one render job per outline page,
// bounded fan-out, partial failure allowed. Pending edits are flushed before
// leaving the editing stage. The call blocks until every page settled.
func (g *Generator) GenerateImages(ctx context.Context) error {
	pages := g.wf.Outline().Pages
	if len(pages) == 0 {
		return ErrNoPages
	}

	// No edit may be lost to a cancelled debounce timer; the flush failure
	// itself must not block generation.
	if err := g.saver.Flush(ctx); err != nil {
		g.log.WithError(err).Warn("failed to flush edits before generation")
	}

	if !g.wf.StartGeneration() {
		return ErrGenerationInFlight
	}

	topic := g.wf.Topic()
	jobs := make(chan outline.Page)
	var wg sync.WaitGroup
	for i := 0; i < g.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				g.renderPage(ctx, topic, p)
			}
		}()
	}
	for _, p := range pages {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	g.wf.FinishGeneration(uuid.NewString())

	if err := g.saver.SaveNow(ctx); err != nil {
		g.log.WithError(err).Warn("failed to persist generation result")
	}
	return nil
}

// RegeneratePage re-renders one failed page. It may overlap a bulk run; the
// tracker's by-index addressing keeps both paths consistent.
func (g *Generator) RegeneratePage(ctx context.Context, index int) error {
	if !g.wf.MarkImageRetrying(index) {
		return ErrPageNotFailed
	}

	o := g.wf.Outline()
	page := o.PageAt(index)
	if page == nil {
		g.wf.UpdateProgress(index, workflow.ImageError, "", "page no longer exists", false)
		return ErrPageNotFailed
	}

	g.wf.UpdateProgress(index, workflow.ImageGenerating, "", "", false)
	g.renderPage(ctx, g.wf.Topic(), *page)

	if img, ok := g.wf.Image(index); ok && img.Status == workflow.ImageError {
		return &render.Error{Message: img.Error, Retryable: img.Retryable}
	}
	return nil
}

// RegenerateFailed re-renders every currently failed page.
func (g *Generator) RegenerateFailed(ctx context.Context) {
	for _, img := range g.wf.FailedImages() {
		if err := g.RegeneratePage(ctx, img.Index); err != nil {
			g.log.WithField("page", img.Index).WithError(err).Warn("page retry failed")
		}
	}
}

// GenerateContent runs one content request cycle. A call while a cycle is in
// flight is a no-op. Success triggers an asynchronous best-effort save whose
// failure is logged; locally generated content stays authoritative.
func (g *Generator) GenerateContent(ctx context.Context) error {
	seq, ok := g.wf.BeginContentGeneration()
	if !ok {
		return nil
	}

	state := g.wf.State()
	content, err := g.api.GenerateContent(ctx, state.Topic, state.Outline.Raw)
	if err != nil {
		g.wf.FailContentGeneration(seq, err.Error())
		return err
	}

	if !g.wf.CompleteContentGeneration(seq, content.Titles, content.Copywriting, content.Tags) {
		return nil // superseded by a newer cycle
	}

	go func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := g.saver.SaveNow(saveCtx); err != nil {
			g.log.WithError(err).Warn("failed to persist generated content")
		}
	}()
	return nil
}

// renderPage renders one page and records the outcome on the tracker.
func (g *Generator) renderPage(ctx context.Context, topic string, p outline.Page) {
	url, err := g.renderer.RenderPage(ctx, render.Request{
		Topic:     topic,
		PageIndex: p.Index,
		PageType:  p.Type,
		Content:   p.Content,
	}, func(percent int) {
		g.wf.SetImageProgress(p.Index, percent)
	})
	if err != nil {
		retryable := false
		var rerr *render.Error
		if errors.As(err, &rerr) {
			retryable = rerr.Retryable
		}
		g.wf.UpdateProgress(p.Index, workflow.ImageError, "", err.Error(), retryable)
		g.log.WithField("page", p.Index).WithError(err).Warn("page render failed")
		return
	}
	g.wf.UpdateImage(p.Index, url)
}
