package workflow

import (
	"strings"
	"testing"
	"time"
)

func startedWorkflow(t *testing.T, contents ...string) *Workflow {
	t.Helper()
	w := New()
	raw, pages := outlinePages(contents...)
	w.SetOutline(raw, pages)
	if !w.StartGeneration() {
		t.Fatal("StartGeneration refused")
	}
	return w
}

func TestStartGeneration_FreshEntries(t *testing.T) {
	w := startedWorkflow(t, "A", "B", "C")

	if w.Stage() != StageGenerating {
		t.Errorf("stage: got %q, want %q", w.Stage(), StageGenerating)
	}
	p := w.Progress()
	if p.Current != 0 || p.Total != 3 || p.Status != StatusGenerating {
		t.Errorf("progress: got %+v", p)
	}
	images := w.Images()
	if len(images) != 3 {
		t.Fatalf("images: got %d, want 3", len(images))
	}
	for i, img := range images {
		if img.Status != ImageGenerating {
			t.Errorf("image %d status: got %q, want %q", i, img.Status, ImageGenerating)
		}
		if img.Index != i {
			t.Errorf("image %d index: got %d", i, img.Index)
		}
	}
}

func TestStartGeneration_RefusedWhileInFlight(t *testing.T) {
	w := startedWorkflow(t, "A", "B")

	if w.StartGeneration() {
		t.Error("second StartGeneration while in flight should be refused")
	}

	w.FinishGeneration("task-1")
	if !w.StartGeneration() {
		t.Error("StartGeneration after finish should be allowed")
	}
}

func TestUpdateProgress_DoneIncrementsOnce(t *testing.T) {
	w := startedWorkflow(t, "A", "B")

	w.UpdateProgress(0, ImageDone, "http://img/0.png", "", false)
	w.UpdateProgress(0, ImageDone, "http://img/0.png", "", false)

	if got := w.Progress().Current; got != 1 {
		t.Errorf("current after double done: got %d, want 1", got)
	}
}

func TestUpdateProgress_ErrorSetsFields(t *testing.T) {
	w := startedWorkflow(t, "A", "B")

	w.UpdateProgress(1, ImageError, "", "timeout", true)

	img, ok := w.Image(1)
	if !ok {
		t.Fatal("image 1 missing")
	}
	if img.Status != ImageError || img.Error != "timeout" || !img.Retryable {
		t.Errorf("image: got %+v", img)
	}
	if w.Progress().Current != 0 {
		t.Errorf("error should not advance progress: got %d", w.Progress().Current)
	}
}

func TestUpdateProgress_MissingIndexIsNoOp(t *testing.T) {
	w := startedWorkflow(t, "A")

	w.UpdateProgress(9, ImageDone, "", "", false)

	if w.Progress().Current != 0 {
		t.Errorf("progress advanced for unknown index: %d", w.Progress().Current)
	}
}

func TestUpdateImage_CacheBustsAndClearsError(t *testing.T) {
	w := startedWorkflow(t, "A")
	w.now = func() time.Time { return time.UnixMilli(1712345678901) }
	w.UpdateProgress(0, ImageError, "", "boom", true)

	w.UpdateImage(0, "http://img/0.png")

	img, _ := w.Image(0)
	if img.Status != ImageDone || img.Error != "" || img.Retryable {
		t.Errorf("image: got %+v", img)
	}
	if img.URL != "http://img/0.png?t=1712345678901" {
		t.Errorf("url: got %q", img.URL)
	}
	if w.Progress().Current != 1 {
		t.Errorf("current: got %d, want 1", w.Progress().Current)
	}
}

func TestUpdateImage_ExistingQueryUsesAmpersand(t *testing.T) {
	w := startedWorkflow(t, "A")
	w.now = func() time.Time { return time.UnixMilli(42) }

	w.UpdateImage(0, "http://img/0.png?v=2")

	img, _ := w.Image(0)
	if !strings.HasSuffix(img.URL, "?v=2&t=42") {
		t.Errorf("url: got %q", img.URL)
	}
}

func TestUpdateImage_AfterUpdateProgressDoneSingleIncrement(t *testing.T) {
	w := startedWorkflow(t, "A", "B")

	w.UpdateProgress(0, ImageDone, "http://img/0.png", "", false)
	w.UpdateImage(0, "http://img/0.png")

	if got := w.Progress().Current; got != 1 {
		t.Errorf("current: got %d, want 1", got)
	}
}

func TestFinishGeneration_PartialFailureIsTerminal(t *testing.T) {
	w := startedWorkflow(t, "A", "B", "C")
	w.UpdateImage(0, "http://img/0.png")
	w.UpdateProgress(1, ImageError, "", "no gpu", true)

	w.FinishGeneration("task-42")

	if w.Stage() != StageResult {
		t.Errorf("stage: got %q, want %q", w.Stage(), StageResult)
	}
	if w.Progress().Status != StatusDone {
		t.Errorf("progress status: got %q, want %q", w.Progress().Status, StatusDone)
	}
	if w.TaskID() != "task-42" {
		t.Errorf("taskID: got %q", w.TaskID())
	}
}

func TestFailedQueries(t *testing.T) {
	w := startedWorkflow(t, "A", "B", "C", "D")
	w.UpdateProgress(3, ImageError, "", "late failure", false)
	w.UpdateProgress(1, ImageError, "", "early failure", true)
	w.UpdateImage(0, "http://img/0.png")

	if !w.HasFailedImages() {
		t.Fatal("HasFailedImages: got false")
	}

	failed := w.FailedImages()
	if len(failed) != 2 {
		t.Fatalf("failed images: got %d, want 2", len(failed))
	}

	pages := w.FailedPages()
	if len(pages) != 2 {
		t.Fatalf("failed pages: got %d, want 2", len(pages))
	}
	// Page order, not failure order.
	if pages[0].Index != 1 || pages[1].Index != 3 {
		t.Errorf("failed pages out of order: %+v", pages)
	}
	if pages[0].Content != "B" || pages[1].Content != "D" {
		t.Errorf("failed page contents: %+v", pages)
	}
}

func TestMarkImageRetrying(t *testing.T) {
	w := startedWorkflow(t, "A", "B")
	w.UpdateProgress(0, ImageError, "", "boom", true)

	if !w.MarkImageRetrying(0) {
		t.Error("retry of failed image refused")
	}
	img, _ := w.Image(0)
	if img.Status != ImageRetrying {
		t.Errorf("status: got %q, want %q", img.Status, ImageRetrying)
	}

	// Only failed images can enter retrying.
	if w.MarkImageRetrying(1) {
		t.Error("retry of generating image accepted")
	}

	// Retry cycle can end in done.
	w.UpdateImage(0, "http://img/0-retry.png")
	img, _ = w.Image(0)
	if img.Status != ImageDone {
		t.Errorf("status after retry success: got %q", img.Status)
	}
}

func TestSetImageProgress_Clamps(t *testing.T) {
	w := startedWorkflow(t, "A")

	w.SetImageProgress(0, 150)
	img, _ := w.Image(0)
	if img.Progress != 100 {
		t.Errorf("progress: got %d, want 100", img.Progress)
	}

	w.SetImageProgress(0, -5)
	img, _ = w.Image(0)
	if img.Progress != 0 {
		t.Errorf("progress: got %d, want 0", img.Progress)
	}
}
