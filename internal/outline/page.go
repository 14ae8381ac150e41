package outline

// PageType classifies a page's role within a post.
type PageType string

const (
	PageTypeCover   PageType = "cover"
	PageTypeContent PageType = "content"
	PageTypeSummary PageType = "summary"
)

// Page is one page of an outline. Index always equals the page's position
// in the owning outline; it is reassigned after every structural change.
type Page struct {
	Index   int      `json:"index"`
	Type    PageType `json:"type"`
	Content string   `json:"content"`
}
