package workflow

import (
	"fmt"
	"strings"

	"postcraft/internal/outline"
)

// ImageStatus is the per-image generation state.
type ImageStatus string

const (
	ImageGenerating ImageStatus = "generating"
	ImageDone       ImageStatus = "done"
	ImageError      ImageStatus = "error"
	ImageRetrying   ImageStatus = "retrying"
)

// GeneratedImage tracks one page's render job. Index maps to the owning
// page's index value; lookups search by index, never by slice position.
type GeneratedImage struct {
	Index     int         `json:"index"`
	URL       string      `json:"url"`
	Status    ImageStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
	Progress  int         `json:"progress,omitempty"`
}

// StartGeneration begins a bulk generation run: stage moves to generating,
// progress resets to {0, pages, generating} and one fresh generating entry is
// created per current page. At most one run may be in flight; starting while
// one is active is refused.
func (w *Workflow) StartGeneration() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.progress.Status == StatusGenerating {
		return false
	}

	w.stage = StageGenerating
	w.progress = Progress{Current: 0, Total: len(w.outline.Pages), Status: StatusGenerating}
	w.images = make([]GeneratedImage, 0, len(w.outline.Pages))
	for _, p := range w.outline.Pages {
		w.images = append(w.images, GeneratedImage{Index: p.Index, Status: ImageGenerating})
	}
	return true
}

// FinishGeneration records the renderer job identifier and moves to the
// result stage. Partial failure is a valid terminal state; the transition
// happens regardless of individual image outcomes.
func (w *Workflow) FinishGeneration(taskID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.taskID = taskID
	w.stage = StageResult
	w.progress.Status = StatusDone
}

// UpdateProgress applies a status transition to the image with the given
// index. The aggregate counter increments only when the image first reaches
// done; repeated done updates never double-count. A missing index is a no-op.
func (w *Workflow) UpdateProgress(index int, status ImageStatus, url, errMsg string, retryable bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	img := w.imageAt(index)
	if img == nil {
		return
	}

	if status == ImageDone && img.Status != ImageDone {
		w.progress.Current++
	}
	img.Status = status
	if url != "" {
		img.URL = url
	}
	img.Error = errMsg
	img.Retryable = retryable
	if status == ImageDone {
		img.Progress = 100
	}
}

// UpdateImage is the success-path shortcut: marks the image done, stores the
// URL with a cache-busting timestamp parameter and clears any prior error.
// It respects the single-increment invariant independently of UpdateProgress.
func (w *Workflow) UpdateImage(index int, url string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	img := w.imageAt(index)
	if img == nil {
		return
	}

	if img.Status != ImageDone {
		w.progress.Current++
	}
	img.Status = ImageDone
	img.URL = cacheBust(url, w.now().UnixMilli())
	img.Error = ""
	img.Retryable = false
	img.Progress = 100
}

// SetImageProgress records a 0-100 render progress value for one image.
func (w *Workflow) SetImageProgress(index, percent int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	img := w.imageAt(index)
	if img == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	img.Progress = percent
}

// MarkImageRetrying moves a failed image into the retrying state before a
// fresh render attempt. Images that are not in error are left alone.
func (w *Workflow) MarkImageRetrying(index int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	img := w.imageAt(index)
	if img == nil || img.Status != ImageError {
		return false
	}
	img.Status = ImageRetrying
	img.Progress = 0
	return true
}

// Progress returns the aggregate generation progress.
func (w *Workflow) Progress() Progress {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

// Images returns a copy of all tracked images.
func (w *Workflow) Images() []GeneratedImage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]GeneratedImage{}, w.images...)
}

// Image returns the tracked image with the given index value.
func (w *Workflow) Image(index int) (GeneratedImage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if img := w.imageAt(index); img != nil {
		return *img, true
	}
	return GeneratedImage{}, false
}

// FailedImages returns all images currently in the error state.
func (w *Workflow) FailedImages() []GeneratedImage {
	w.mu.Lock()
	defer w.mu.Unlock()

	var failed []GeneratedImage
	for _, img := range w.images {
		if img.Status == ImageError {
			failed = append(failed, img)
		}
	}
	return failed
}

// FailedPages joins failed image indices back to their pages, in page order.
func (w *Workflow) FailedPages() []outline.Page {
	w.mu.Lock()
	defer w.mu.Unlock()

	failed := make(map[int]bool)
	for _, img := range w.images {
		if img.Status == ImageError {
			failed[img.Index] = true
		}
	}

	var pages []outline.Page
	for _, p := range w.outline.Pages {
		if failed[p.Index] {
			pages = append(pages, p)
		}
	}
	return pages
}

// HasFailedImages reports whether any image is in the error state.
func (w *Workflow) HasFailedImages() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, img := range w.images {
		if img.Status == ImageError {
			return true
		}
	}
	return false
}

// imageAt returns the image whose Index equals index. Callers hold w.mu.
func (w *Workflow) imageAt(index int) *GeneratedImage {
	for i := range w.images {
		if w.images[i].Index == index {
			return &w.images[i]
		}
	}
	return nil
}

func cacheBust(url string, millis int64) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%d", url, sep, millis)
}
