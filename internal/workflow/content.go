package workflow

// GeneratedContent holds the auxiliary post content (titles, copywriting,
// tags). Its lifecycle is independent of image generation and it is always
// overwritten wholesale on success.
type GeneratedContent struct {
	Titles      []string `json:"titles"`
	Copywriting string   `json:"copywriting"`
	Tags        []string `json:"tags"`
	Status      Status   `json:"status"`
	Error       string   `json:"error,omitempty"`
}

// genericContentError is used when a failed generation supplies no message.
const genericContentError = "content generation failed"

// BeginContentGeneration starts a content request cycle. A call while another
// cycle is in flight is refused. The returned sequence number identifies this
// cycle; completion calls carrying a stale sequence are discarded
// (last-response-wins for overlapping requests).
func (w *Workflow) BeginContentGeneration() (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.content.Status == StatusGenerating {
		return 0, false
	}
	w.contentSeq++
	w.content.Status = StatusGenerating
	w.content.Error = ""
	return w.contentSeq, true
}

// CompleteContentGeneration replaces titles, copywriting and tags wholesale
// and marks the flow done. A stale sequence number is discarded.
func (w *Workflow) CompleteContentGeneration(seq uint64, titles []string, copywriting string, tags []string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.contentSeq {
		return false
	}
	w.content = GeneratedContent{
		Titles:      append([]string{}, titles...),
		Copywriting: copywriting,
		Tags:        append([]string{}, tags...),
		Status:      StatusDone,
	}
	return true
}

// FailContentGeneration records a failed cycle. An empty message falls back
// to a generic one. A stale sequence number is discarded.
func (w *Workflow) FailContentGeneration(seq uint64, msg string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.contentSeq {
		return false
	}
	if msg == "" {
		msg = genericContentError
	}
	w.content.Status = StatusError
	w.content.Error = msg
	return true
}

// Content returns a copy of the generated content.
func (w *Workflow) Content() GeneratedContent {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.content
	c.Titles = append([]string{}, w.content.Titles...)
	c.Tags = append([]string{}, w.content.Tags...)
	return c
}
