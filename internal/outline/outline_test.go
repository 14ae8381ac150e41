package outline

import "testing"

func threePages() *Outline {
	o := New()
	o.AddPage(PageTypeCover, "A")
	o.AddPage(PageTypeContent, "B")
	o.AddPage(PageTypeSummary, "C")
	return o
}

func assertIndexesContiguous(t *testing.T, o *Outline) {
	t.Helper()
	for i := range o.Pages {
		if o.Pages[i].Index != i {
			t.Errorf("page at position %d has index %d", i, o.Pages[i].Index)
		}
	}
}

func TestParse_AssignsTypes(t *testing.T) {
	o := Parse("intro" + PageSeparator + "body" + PageSeparator + "wrap-up")

	if len(o.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(o.Pages))
	}
	if o.Pages[0].Type != PageTypeCover {
		t.Errorf("first page type: got %q, want %q", o.Pages[0].Type, PageTypeCover)
	}
	if o.Pages[1].Type != PageTypeContent {
		t.Errorf("middle page type: got %q, want %q", o.Pages[1].Type, PageTypeContent)
	}
	if o.Pages[2].Type != PageTypeSummary {
		t.Errorf("last page type: got %q, want %q", o.Pages[2].Type, PageTypeSummary)
	}
	assertIndexesContiguous(t, o)
}

func TestParse_TwoPagesHaveNoSummary(t *testing.T) {
	o := Parse("intro" + PageSeparator + "body")

	if o.Pages[1].Type != PageTypeContent {
		t.Errorf("second of two pages: got %q, want %q", o.Pages[1].Type, PageTypeContent)
	}
}

func TestParse_DropsBlankSegments(t *testing.T) {
	o := Parse("A" + PageSeparator + "   " + PageSeparator + "B")

	if len(o.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(o.Pages))
	}
}

func TestUpdatePage_RederivesRaw(t *testing.T) {
	o := threePages()
	o.UpdatePage(1, "B2")

	if o.Pages[1].Content != "B2" {
		t.Errorf("content: got %q, want %q", o.Pages[1].Content, "B2")
	}
	want := "A" + PageSeparator + "B2" + PageSeparator + "C"
	if o.Raw != want {
		t.Errorf("raw: got %q, want %q", o.Raw, want)
	}
}

func TestUpdatePage_MissingIndexIsNoOp(t *testing.T) {
	o := threePages()
	before := o.Raw
	o.UpdatePage(99, "X")

	if o.Raw != before {
		t.Errorf("raw changed on missing index: %q", o.Raw)
	}
}

func TestDeletePage_Renumbers(t *testing.T) {
	o := threePages()
	o.DeletePage(1)

	if len(o.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(o.Pages))
	}
	assertIndexesContiguous(t, o)
	if o.Pages[1].Content != "C" {
		t.Errorf("remaining page content: got %q, want %q", o.Pages[1].Content, "C")
	}
	want := "A" + PageSeparator + "C"
	if o.Raw != want {
		t.Errorf("raw: got %q, want %q", o.Raw, want)
	}
}

func TestDeletePage_MissingIndexIsNoOp(t *testing.T) {
	o := threePages()
	o.DeletePage(7)

	if len(o.Pages) != 3 {
		t.Errorf("got %d pages, want 3", len(o.Pages))
	}
}

func TestAddPage_AppendsWithNextIndex(t *testing.T) {
	o := threePages()
	o.AddPage(PageTypeContent, "D")

	if o.Pages[3].Index != 3 {
		t.Errorf("new page index: got %d, want 3", o.Pages[3].Index)
	}
	assertIndexesContiguous(t, o)
}

func TestInsertPage_AfterPosition(t *testing.T) {
	o := threePages()
	o.InsertPage(0, PageTypeContent, "X")

	if len(o.Pages) != 4 {
		t.Fatalf("got %d pages, want 4", len(o.Pages))
	}
	if o.Pages[1].Content != "X" {
		t.Errorf("inserted content at position 1: got %q", o.Pages[1].Content)
	}
	assertIndexesContiguous(t, o)
	want := "A" + PageSeparator + "X" + PageSeparator + "B" + PageSeparator + "C"
	if o.Raw != want {
		t.Errorf("raw: got %q, want %q", o.Raw, want)
	}
}

func TestInsertPage_OutOfRangeIsNoOp(t *testing.T) {
	o := threePages()
	o.InsertPage(5, PageTypeContent, "X")
	o.InsertPage(-1, PageTypeContent, "X")

	if len(o.Pages) != 3 {
		t.Errorf("got %d pages, want 3", len(o.Pages))
	}
}

func TestMovePage_ToEnd(t *testing.T) {
	o := threePages()
	o.MovePage(0, 2)

	wantContents := []string{"B", "C", "A"}
	for i, want := range wantContents {
		if o.Pages[i].Content != want {
			t.Errorf("position %d: got %q, want %q", i, o.Pages[i].Content, want)
		}
	}
	assertIndexesContiguous(t, o)
	want := "B" + PageSeparator + "C" + PageSeparator + "A"
	if o.Raw != want {
		t.Errorf("raw: got %q, want %q", o.Raw, want)
	}
}

func TestMovePage_ToFront(t *testing.T) {
	o := threePages()
	o.MovePage(2, 0)

	wantContents := []string{"C", "A", "B"}
	for i, want := range wantContents {
		if o.Pages[i].Content != want {
			t.Errorf("position %d: got %q, want %q", i, o.Pages[i].Content, want)
		}
	}
	assertIndexesContiguous(t, o)
}

func TestMovePage_OutOfRangeIsNoOp(t *testing.T) {
	o := threePages()
	o.MovePage(0, 5)
	o.MovePage(-1, 1)

	if o.Pages[0].Content != "A" {
		t.Errorf("pages reordered on out-of-range move: %q first", o.Pages[0].Content)
	}
}

func TestMutationSequence_KeepsInvariants(t *testing.T) {
	o := New()
	o.AddPage(PageTypeCover, "A")
	o.AddPage(PageTypeContent, "B")
	o.AddPage(PageTypeContent, "C")
	o.AddPage(PageTypeSummary, "D")

	ops := []func(){
		func() { o.DeletePage(1) },
		func() { o.InsertPage(1, PageTypeContent, "E") },
		func() { o.MovePage(2, 0) },
		func() { o.UpdatePage(1, "F") },
		func() { o.DeletePage(0) },
		func() { o.AddPage(PageTypeContent, "G") },
	}

	for i, op := range ops {
		op()
		assertIndexesContiguous(t, o)

		joined := ""
		for j := range o.Pages {
			if j > 0 {
				joined += PageSeparator
			}
			joined += o.Pages[j].Content
		}
		if o.Raw != joined {
			t.Errorf("after op %d raw out of sync: got %q, want %q", i, o.Raw, joined)
		}
	}
}

func TestEqual(t *testing.T) {
	a := threePages()
	b := threePages()

	if !a.Equal(b) {
		t.Error("identical outlines reported unequal")
	}

	b.UpdatePage(0, "Z")
	if a.Equal(b) {
		t.Error("different outlines reported equal")
	}
	if a.Equal(nil) {
		t.Error("nil outline reported equal")
	}
}
