package sink

import (
	"strings"
	"testing"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// splitPages is a two-page sequence with the experience section split
// across the page break.
func splitPages() []layout.Page {
	return []layout.Page{
		{
			Index:  0,
			Header: layout.HeaderFull,
			Sections: []layout.SectionContent{
				{SectionID: resume.SectionSummary, Items: layout.WholeSection, ShowHeader: true},
				{SectionID: resume.SectionExperience, Items: layout.Span(0, 0), ShowHeader: true},
			},
		},
		{
			Index:  1,
			Header: layout.HeaderMini,
			Sections: []layout.SectionContent{
				{SectionID: resume.SectionExperience, Items: layout.Span(1, 1)},
				{SectionID: resume.SectionEducation, Items: layout.WholeSection, ShowHeader: true},
			},
		},
	}
}

func TestRenderTextPlain(t *testing.T) {
	doc := sampleDoc()
	out := string(RenderText(splitPages(), doc, layout.Config{}, WithPlainText()))

	if !strings.Contains(out, "--- page 1 [full] ---") {
		t.Error("page 1 marker missing")
	}
	if !strings.Contains(out, "--- page 2 [mini] ---") {
		t.Error("page 2 marker missing")
	}
	if !strings.Contains(out, doc.Name) {
		t.Error("full header must carry the name")
	}

	// The split section's title appears exactly once, on the page with
	// the section's first item.
	if got := strings.Count(out, "Work Experience"); got != 1 {
		t.Errorf("Work Experience title rendered %d times, want 1", got)
	}

	// Each page renders only its assigned item range.
	page2 := out[strings.Index(out, "--- page 2"):]
	if strings.Contains(page2, "Acme") {
		t.Error("page 2 must not repeat page 1's experience item")
	}
	if !strings.Contains(page2, "Init") {
		t.Error("page 2 must carry the second experience item")
	}
}

func TestRenderTextOverflowWarning(t *testing.T) {
	doc := sampleDoc()
	pages := []layout.Page{{
		Index:       0,
		Header:      layout.HeaderFull,
		Sections:    []layout.SectionContent{{SectionID: resume.SectionSummary, Items: layout.WholeSection, ShowHeader: true}},
		Overflowing: true,
	}}

	out := string(RenderText(pages, doc, layout.Config{}, WithPlainText()))
	if !strings.Contains(out, "content exceeds page budget") {
		t.Error("overflowing pages must render the advisory warning")
	}
}

func TestRenderTextSidebar(t *testing.T) {
	doc := sampleDoc()
	pages := []layout.Page{{
		Index:          0,
		Header:         layout.HeaderFull,
		SidebarExtends: true,
		Sections:       []layout.SectionContent{{SectionID: resume.SectionSummary, Items: layout.WholeSection, ShowHeader: true}},
	}}

	out := string(RenderText(pages, doc, layout.Config{LayoutType: layout.LayoutSidebarLeft}, WithPlainText()))
	if !strings.Contains(out, "[sidebar]") {
		t.Error("sidebar block missing")
	}
	side := out[strings.Index(out, "[sidebar]"):strings.Index(out, "[/sidebar]")]
	if !strings.Contains(side, "Skills") || !strings.Contains(side, "Languages") {
		t.Errorf("sidebar must carry skills and languages: %q", side)
	}
}

func TestRenderEmptyPage(t *testing.T) {
	doc := &resume.Document{ID: "x", Name: "Empty"}
	pages := []layout.Page{{Index: 0, Header: layout.HeaderFull}}

	out := string(RenderText(pages, doc, layout.Config{}, WithPlainText()))
	if !strings.Contains(out, "(empty page)") {
		t.Error("a section-less page still renders a placeholder body")
	}
}

// Preview and export read the same descriptors; their page contents must
// agree item for item.
func TestPreviewExportParity(t *testing.T) {
	doc := sampleDoc()
	pages := splitPages()
	cfg := layout.Config{}

	text := string(RenderText(pages, doc, cfg, WithPlainText()))
	svg := string(RenderSVG(pages, doc, cfg))

	// Title shown once in both paths.
	if strings.Count(text, "Work Experience") != strings.Count(svg, "Work Experience") {
		t.Error("split-section title count differs between preview and export")
	}

	// Both paths place the same experience items.
	for _, marker := range []string{"Acme", "Init", "ETH"} {
		if strings.Contains(text, marker) != strings.Contains(svg, marker) {
			t.Errorf("item %q present in only one render path", marker)
		}
	}
}
