// Package snapshot persists the workflow aggregate to a local key-value
// store so a session can be resumed after a restart. A corrupt, missing or
// unreadable snapshot is always treated as "no saved state"; loading never
// fails and never crashes startup.
package snapshot

import (
	"encoding/json"

	"postcraft/internal/workflow"
)

// SchemaVersion is bumped whenever the on-disk shape changes. Snapshots with
// an unrecognized version are discarded instead of merged.
const SchemaVersion = 1

// DefaultKey is the slot the active workflow session is stored under.
const DefaultKey = "workflow"

// Store is the local key-value slot the snapshot lives in. Implementations
// must degrade to absence on read errors rather than propagate them.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// document is the serialized form: the workflow state plus a schema version.
type document struct {
	Version int `json:"version"`
	workflow.State
}

// Save serializes the state into the store slot.
func Save(store Store, key string, s workflow.State) error {
	data, err := json.Marshal(document{Version: SchemaVersion, State: s})
	if err != nil {
		return err
	}
	return store.Set(key, string(data))
}

// Load restores a workflow from the store slot. Absence, parse failure or a
// version mismatch all yield a fresh zero-state workflow.
func Load(store Store, key string) *workflow.Workflow {
	raw, ok := store.Get(key)
	if !ok {
		return workflow.New()
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return workflow.New()
	}
	if doc.Version != SchemaVersion {
		return workflow.New()
	}

	return workflow.FromState(repair(doc.State))
}

// Clear removes the stored snapshot.
func Clear(store Store, key string) error {
	return store.Remove(key)
}

// repair normalizes a decoded state field by field so that a snapshot written
// by a buggy or hand-edited source cannot violate the aggregate's invariants.
func repair(s workflow.State) workflow.State {
	switch s.Stage {
	case workflow.StageInput, workflow.StageOutline, workflow.StageGenerating, workflow.StageResult:
	default:
		s.Stage = workflow.StageInput
	}

	s.Progress.Status = repairStatus(s.Progress.Status)
	s.OutlineStatus = repairStatus(s.OutlineStatus)
	s.Content.Status = repairStatus(s.Content.Status)

	// Re-establish the renumbering invariant.
	for i := range s.Outline.Pages {
		s.Outline.Pages[i].Index = i
	}

	if s.Progress.Total < 0 {
		s.Progress.Total = 0
	}
	if s.Progress.Current < 0 {
		s.Progress.Current = 0
	}
	if s.Progress.Current > s.Progress.Total {
		s.Progress.Current = s.Progress.Total
	}

	for i := range s.Images {
		switch s.Images[i].Status {
		case workflow.ImageGenerating, workflow.ImageDone, workflow.ImageError, workflow.ImageRetrying:
		default:
			s.Images[i].Status = workflow.ImageError
		}
		if s.Images[i].Progress < 0 {
			s.Images[i].Progress = 0
		}
		if s.Images[i].Progress > 100 {
			s.Images[i].Progress = 100
		}
	}

	return s
}

func repairStatus(s workflow.Status) workflow.Status {
	switch s {
	case workflow.StatusIdle, workflow.StatusGenerating, workflow.StatusDone, workflow.StatusError:
		return s
	default:
		return workflow.StatusIdle
	}
}
