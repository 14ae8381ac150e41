// Package autosave is the persistence synchronizer: every meaningful state
// change lands in the local snapshot immediately, while remote saves are
// coalesced through a debounce window. Remote failures are logged and
// surfaced only through the saving flag; they never block the user flow.
package autosave

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"postcraft/internal/history"
	"postcraft/internal/outline"
	"postcraft/internal/snapshot"
	"postcraft/internal/workflow"
)

// API is the slice of the history backend the saver needs.
type API interface {
	CreateHistory(ctx context.Context, topic string, o outline.Outline, taskID string, content *history.Content) (string, error)
	UpdateHistory(ctx context.Context, recordID string, o *outline.Outline, content *history.Content) error
}

// Saver owns both persistence paths for one workflow session.
type Saver struct {
	wf       *workflow.Workflow
	api      API
	store    snapshot.Store
	key      string
	debounce *Debouncer
	timeout  time.Duration
	saving   atomic.Bool
	log      *logrus.Entry
}

// New creates a saver for the given workflow session.
func New(wf *workflow.Workflow, api API, store snapshot.Store, delay time.Duration, log *logrus.Entry) *Saver {
	s := &Saver{
		wf:      wf,
		api:     api,
		store:   store,
		key:     snapshot.DefaultKey,
		timeout: 30 * time.Second,
		log:     log,
	}
	s.debounce = NewDebouncer(delay, s.settle)
	return s
}

// NoteChange records that the workflow changed: the local snapshot is written
// immediately and a remote save is scheduled behind the debounce window.
func (s *Saver) NoteChange() {
	s.saveLocal()
	s.debounce.Trigger()
}

// Flush cancels any pending debounce and performs the remote save
// synchronously. Called before leaving the editing stage so no edit is lost
// to a late-cancelled timer. A flush with nothing to save is a no-op.
func (s *Saver) Flush(ctx context.Context) error {
	pending := s.debounce.Cancel()
	if !pending && !s.wf.HasUnsavedChanges() {
		return nil
	}
	return s.saveRemote(ctx)
}

// SaveNow writes the local snapshot and performs an immediate remote save.
func (s *Saver) SaveNow(ctx context.Context) error {
	s.saveLocal()
	s.debounce.Cancel()
	return s.saveRemote(ctx)
}

// IsSaving reports whether a remote save is currently in flight.
func (s *Saver) IsSaving() bool {
	return s.saving.Load()
}

// HasUnsavedChanges reports whether local state has not reached the remote
// record yet.
func (s *Saver) HasUnsavedChanges() bool {
	return s.wf.HasUnsavedChanges()
}

// Reset returns the workflow to its zero state and purges the local snapshot.
func (s *Saver) Reset() {
	s.debounce.Cancel()
	s.wf.Reset()
	if err := snapshot.Clear(s.store, s.key); err != nil {
		s.log.WithError(err).Warn("failed to clear local snapshot")
	}
}

// settle is the debounce target: one best-effort remote save per quiet window.
func (s *Saver) settle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.saveRemote(ctx); err != nil {
		s.log.WithError(err).Warn("autosave failed")
	}
}

// saveRemote creates the record on first save and updates it afterwards.
func (s *Saver) saveRemote(ctx context.Context) error {
	s.saving.Store(true)
	defer s.saving.Store(false)

	state := s.wf.State()
	content := wireContent(state.Content)

	if state.RecordID == "" {
		id, err := s.api.CreateHistory(ctx, state.Topic, state.Outline, state.TaskID, content)
		if err != nil {
			return err
		}
		s.wf.SetRecordID(id)
		s.saveLocal()
		return nil
	}

	if err := s.api.UpdateHistory(ctx, state.RecordID, &state.Outline, content); err != nil {
		return err
	}
	s.wf.MarkSaved()
	s.saveLocal()
	return nil
}

func (s *Saver) saveLocal() {
	if err := snapshot.Save(s.store, s.key, s.wf.State()); err != nil {
		s.log.WithError(err).Warn("failed to write local snapshot")
	}
}

// wireContent converts generated content to its wire shape, or nil when no
// content has been generated yet.
func wireContent(c workflow.GeneratedContent) *history.Content {
	if c.Status != workflow.StatusDone {
		return nil
	}
	return &history.Content{Titles: c.Titles, Copywriting: c.Copywriting, Tags: c.Tags}
}
