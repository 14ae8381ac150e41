// Package outline models the ordered page list that becomes one post.
//
// All structural operations address pages by position. The renumber invariant
// (Page.Index == position, 0-based, contiguous) is re-established after every
// insert, delete and move, so positions and index values never diverge between
// operations.
package outline

import "strings"

// PageSeparator joins page contents into the raw outline text.
const PageSeparator = "\n\n<page>\n\n"

// Outline holds the ordered pages of a post. Raw is a cached projection of
// Pages — it is re-derived after every mutation and is never the source of
// truth once pages exist.
type Outline struct {
	Raw   string `json:"raw"`
	Pages []Page `json:"pages"`
}

// New returns an empty outline.
func New() *Outline {
	return &Outline{Pages: []Page{}}
}

// Parse splits raw outline text on the page separator and assigns page types:
// the first page is the cover, the last is the summary when there are at least
// three pages, and everything in between is content. Blank segments are dropped.
func Parse(raw string) *Outline {
	o := New()
	segments := strings.Split(raw, PageSeparator)

	var contents []string
	for _, seg := range segments {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			contents = append(contents, trimmed)
		}
	}

	for i, content := range contents {
		t := PageTypeContent
		switch {
		case i == 0:
			t = PageTypeCover
		case i == len(contents)-1 && len(contents) >= 3:
			t = PageTypeSummary
		}
		o.Pages = append(o.Pages, Page{Index: i, Type: t, Content: content})
	}

	o.deriveRaw()
	return o
}

// Equal reports whether two outlines have the same raw text and pages.
func (o *Outline) Equal(other *Outline) bool {
	if other == nil {
		return false
	}
	if o.Raw != other.Raw || len(o.Pages) != len(other.Pages) {
		return false
	}
	for i := range o.Pages {
		if o.Pages[i] != other.Pages[i] {
			return false
		}
	}
	return true
}

// PageAt returns the page whose Index field equals index, or nil.
// Lookup is by index value, not slice position.
func (o *Outline) PageAt(index int) *Page {
	for i := range o.Pages {
		if o.Pages[i].Index == index {
			return &o.Pages[i]
		}
	}
	return nil
}

// UpdatePage replaces the content of the page whose Index equals index.
// A missing index is a no-op.
func (o *Outline) UpdatePage(index int, content string) {
	page := o.PageAt(index)
	if page == nil {
		return
	}
	page.Content = content
	o.deriveRaw()
}

// DeletePage removes the page whose Index equals index and renumbers the rest.
// A missing index is a no-op.
func (o *Outline) DeletePage(index int) {
	for i := range o.Pages {
		if o.Pages[i].Index == index {
			o.Pages = append(o.Pages[:i], o.Pages[i+1:]...)
			o.renumber()
			o.deriveRaw()
			return
		}
	}
}

// AddPage appends a new page at the end.
func (o *Outline) AddPage(t PageType, content string) {
	o.Pages = append(o.Pages, Page{Index: len(o.Pages), Type: t, Content: content})
	o.deriveRaw()
}

// InsertPage inserts a new page immediately after the given position.
// An out-of-range position is a no-op.
func (o *Outline) InsertPage(afterPos int, t PageType, content string) {
	if afterPos < 0 || afterPos >= len(o.Pages) {
		return
	}
	page := Page{Type: t, Content: content}
	o.Pages = append(o.Pages, Page{})
	copy(o.Pages[afterPos+2:], o.Pages[afterPos+1:])
	o.Pages[afterPos+1] = page
	o.renumber()
	o.deriveRaw()
}

// MovePage removes the page at position from and reinserts it at position to.
// Out-of-range positions are a no-op.
func (o *Outline) MovePage(from, to int) {
	if from < 0 || from >= len(o.Pages) || to < 0 || to >= len(o.Pages) || from == to {
		return
	}
	page := o.Pages[from]
	o.Pages = append(o.Pages[:from], o.Pages[from+1:]...)
	o.Pages = append(o.Pages, Page{})
	copy(o.Pages[to+1:], o.Pages[to:])
	o.Pages[to] = page
	o.renumber()
	o.deriveRaw()
}

// renumber reassigns Index = position for every page.
func (o *Outline) renumber() {
	for i := range o.Pages {
		o.Pages[i].Index = i
	}
}

// deriveRaw rebuilds the cached raw text from the current pages.
func (o *Outline) deriveRaw() {
	contents := make([]string, len(o.Pages))
	for i := range o.Pages {
		contents[i] = o.Pages[i].Content
	}
	o.Raw = strings.Join(contents, PageSeparator)
}
