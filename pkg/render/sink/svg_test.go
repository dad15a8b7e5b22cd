package sink

import (
	"strings"
	"testing"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

func TestRenderSVG(t *testing.T) {
	doc := sampleDoc()
	out := string(RenderSVG(splitPages(), doc, layout.Config{}))

	if !strings.HasPrefix(out, "<svg") {
		t.Fatal("output must be an SVG document")
	}
	// One frame rect per page.
	if got := strings.Count(out, `fill="white"`); got != 2 {
		t.Errorf("expected 2 page frames, got %d", got)
	}
	if !strings.Contains(out, "Mara Keller — page 2") {
		t.Error("continuation page must carry the mini header")
	}
	if strings.Count(out, ">Work Experience<") != 1 {
		t.Error("split-section title must appear once")
	}
}

func TestRenderSVGSinglePage(t *testing.T) {
	doc := sampleDoc()
	out := string(RenderSVG(splitPages(), doc, layout.Config{}, WithSVGPage(1)))

	if got := strings.Count(out, `fill="white"`); got != 1 {
		t.Errorf("expected 1 page frame, got %d", got)
	}
	if strings.Contains(out, "Acme") {
		t.Error("page 0 content must not appear")
	}
	if !strings.Contains(out, "Init") {
		t.Error("page 1 content missing")
	}
}

func TestRenderSVGEscapesMarkup(t *testing.T) {
	doc := &resume.Document{
		ID:      "x",
		Name:    `R&D <Lead>`,
		Summary: "works on <svg> injection & escaping",
	}
	pages := []layout.Page{{
		Index:    0,
		Header:   layout.HeaderFull,
		Sections: []layout.SectionContent{{SectionID: resume.SectionSummary, Items: layout.WholeSection, ShowHeader: true}},
	}}

	out := string(RenderSVG(pages, doc, layout.Config{}))
	if strings.Contains(out, "<Lead>") || strings.Contains(out, "<svg> injection") {
		t.Error("document text must be escaped")
	}
	if !strings.Contains(out, "R&amp;D &lt;Lead&gt;") {
		t.Error("escaped header text missing")
	}
}

func TestRenderSVGOverflowWarning(t *testing.T) {
	doc := sampleDoc()
	pages := []layout.Page{{
		Index:       0,
		Header:      layout.HeaderFull,
		Sections:    []layout.SectionContent{{SectionID: resume.SectionSummary, Items: layout.WholeSection, ShowHeader: true}},
		Overflowing: true,
	}}

	out := string(RenderSVG(pages, doc, layout.Config{}))
	if !strings.Contains(out, "content exceeds page budget") {
		t.Error("overflow warning missing")
	}
}
