// Package workflow implements the generation workflow state machine: the
// stage progression input → outline → generating → result, the per-page
// image tracker, and the content sub-generation flow.
//
// One Workflow instance corresponds to one active session. All methods are
// safe for concurrent use; bulk generation and single-page regeneration may
// interleave freely because every tracker update addresses images by index.
package workflow

import (
	"sync"
	"time"

	"postcraft/internal/outline"
)

// Stage is the top-level phase of the workflow.
type Stage string

const (
	StageInput      Stage = "input"
	StageOutline    Stage = "outline"
	StageGenerating Stage = "generating"
	StageResult     Stage = "result"
)

// Status is the lifecycle of an async sub-flow (progress, outline, content).
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Progress tracks bulk image generation. Total is fixed when a run starts;
// Current only increments when an image first transitions into done.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  Status `json:"status"`
}

// UserImage is an uploaded reference file. It lives in working state only and
// is never serialized.
type UserImage struct {
	Name string
	Data []byte
}

// State is the serializable view of a workflow aggregate. UserImages is
// deliberately absent.
type State struct {
	Stage         Stage             `json:"stage"`
	Topic         string            `json:"topic"`
	Outline       outline.Outline   `json:"outline"`
	Progress      Progress          `json:"progress"`
	Images        []GeneratedImage  `json:"images"`
	TaskID        string            `json:"taskId"`
	RecordID      string            `json:"recordId"`
	Content       GeneratedContent  `json:"content"`
	OutlineStatus Status            `json:"outlineStatus"`
	LastSavedAt   *time.Time        `json:"lastSavedAt"`
}

// Workflow is the aggregate for one generation session.
type Workflow struct {
	mu sync.Mutex

	stage         Stage
	topic         string
	outline       *outline.Outline
	progress      Progress
	images        []GeneratedImage
	taskID        string
	recordID      string
	content       GeneratedContent
	outlineStatus Status
	lastSavedAt   *time.Time
	userImages    []UserImage

	// Monotonic counter detecting stale content-generation responses.
	contentSeq uint64

	now func() time.Time
}

// New returns a workflow in its zero state.
func New() *Workflow {
	return &Workflow{
		stage:         StageInput,
		outline:       outline.New(),
		progress:      Progress{Status: StatusIdle},
		images:        []GeneratedImage{},
		content:       GeneratedContent{Status: StatusIdle},
		outlineStatus: StatusIdle,
		now:           time.Now,
	}
}

// FromState restores a workflow from a previously captured state.
func FromState(s State) *Workflow {
	w := New()
	w.stage = s.Stage
	w.topic = s.Topic
	o := s.Outline
	w.outline = &o
	if w.outline.Pages == nil {
		w.outline.Pages = []outline.Page{}
	}
	w.progress = s.Progress
	if s.Images != nil {
		w.images = append([]GeneratedImage{}, s.Images...)
	}
	w.taskID = s.TaskID
	w.recordID = s.RecordID
	w.content = s.Content
	w.outlineStatus = s.OutlineStatus
	w.lastSavedAt = s.LastSavedAt
	return w
}

// State captures a deep copy of the serializable workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := State{
		Stage:         w.stage,
		Topic:         w.topic,
		Outline:       outline.Outline{Raw: w.outline.Raw, Pages: append([]outline.Page{}, w.outline.Pages...)},
		Progress:      w.progress,
		Images:        append([]GeneratedImage{}, w.images...),
		TaskID:        w.taskID,
		RecordID:      w.recordID,
		Content:       w.content,
		OutlineStatus: w.outlineStatus,
		LastSavedAt:   w.lastSavedAt,
	}
	s.Content.Titles = append([]string{}, w.content.Titles...)
	s.Content.Tags = append([]string{}, w.content.Tags...)
	return s
}

// Stage returns the current workflow stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Topic returns the current topic.
func (w *Workflow) Topic() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.topic
}

// SetTopic replaces the topic.
func (w *Workflow) SetTopic(topic string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.topic = topic
}

// OutlineStatus returns the outline generation status.
func (w *Workflow) OutlineStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outlineStatus
}

// BeginOutlineGeneration marks outline generation as in flight.
func (w *Workflow) BeginOutlineGeneration() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outlineStatus = StatusGenerating
}

// FailOutlineGeneration marks outline generation as failed.
func (w *Workflow) FailOutlineGeneration() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outlineStatus = StatusError
}

// SetOutline replaces the outline wholesale, advances the stage to outline and
// marks outline generation done. Setting a value-equal outline is a no-op;
// the return value reports whether anything changed.
func (w *Workflow) SetOutline(raw string, pages []outline.Page) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := &outline.Outline{Raw: raw, Pages: append([]outline.Page{}, pages...)}
	if w.outline.Equal(next) && w.stage == StageOutline && w.outlineStatus == StatusDone {
		return false
	}
	w.outline = next
	w.stage = StageOutline
	w.outlineStatus = StatusDone
	return true
}

// Outline returns a copy of the current outline.
func (w *Workflow) Outline() outline.Outline {
	w.mu.Lock()
	defer w.mu.Unlock()
	return outline.Outline{Raw: w.outline.Raw, Pages: append([]outline.Page{}, w.outline.Pages...)}
}

// UpdatePage updates the content of the page with the given index value.
func (w *Workflow) UpdatePage(index int, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline.UpdatePage(index, content)
}

// DeletePage removes the page with the given index value.
func (w *Workflow) DeletePage(index int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline.DeletePage(index)
}

// AddPage appends a page to the outline.
func (w *Workflow) AddPage(t outline.PageType, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline.AddPage(t, content)
}

// InsertPage inserts a page after the given position.
func (w *Workflow) InsertPage(afterPos int, t outline.PageType, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline.InsertPage(afterPos, t, content)
}

// MovePage moves a page between positions.
func (w *Workflow) MovePage(from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline.MovePage(from, to)
}

// TaskID returns the renderer job identifier of the last generation run.
func (w *Workflow) TaskID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.taskID
}

// RecordID returns the remote history record identifier, or "" before the
// record is first persisted.
func (w *Workflow) RecordID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recordID
}

// SetRecordID adopts a remote record identifier and refreshes the save time.
func (w *Workflow) SetRecordID(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recordID = id
	now := w.now()
	w.lastSavedAt = &now
}

// MarkSaved refreshes the save timestamp after a successful remote update.
func (w *Workflow) MarkSaved() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.lastSavedAt = &now
}

// LastSavedAt returns the time of the last successful remote save, or nil.
func (w *Workflow) LastSavedAt() *time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSavedAt
}

// HasUnsavedChanges reports whether local state has never reached the remote
// record: true while no record exists but the session holds data, and true
// when a record exists without a recorded save time.
func (w *Workflow) HasUnsavedChanges() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.recordID == "" {
		return w.topic != "" || len(w.outline.Pages) > 0 || len(w.images) > 0
	}
	return w.lastSavedAt == nil
}

// AddUserImage attaches an uploaded reference file to the session.
func (w *Workflow) AddUserImage(name string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.userImages = append(w.userImages, UserImage{Name: name, Data: data})
}

// UserImages returns the uploaded reference files.
func (w *Workflow) UserImages() []UserImage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]UserImage{}, w.userImages...)
}

// Reset force-returns the workflow to its zero state from any stage.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stage = StageInput
	w.topic = ""
	w.outline = outline.New()
	w.progress = Progress{Status: StatusIdle}
	w.images = []GeneratedImage{}
	w.taskID = ""
	w.recordID = ""
	w.content = GeneratedContent{Status: StatusIdle}
	w.outlineStatus = StatusIdle
	w.lastSavedAt = nil
	w.userImages = nil
	w.contentSeq++
}
