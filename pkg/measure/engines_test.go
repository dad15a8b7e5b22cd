package measure

import (
	"testing"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// composeBoth runs one document through the estimation engine and through
// the measurement-corrected engine. Both must satisfy the same layout
// properties; only the exact split points may differ.
func composeBoth(doc *resume.Document, cfg layout.Config) map[string][]layout.Page {
	order := doc.NonEmptySections(resume.DefaultOrder)
	estimated := layout.EstimateAll(doc, order)
	corrected := Apply(estimated, Read(RenderOffscreen(doc, cfg)))
	return map[string][]layout.Page{
		"estimated": layout.Compose(estimated, order, cfg),
		"measured":  layout.Compose(corrected, order, cfg),
	}
}

// itemsPlaced sums the placed items of one section across the sequence.
func itemsPlaced(pages []layout.Page, sectionID string, total int) int {
	count := 0
	for _, p := range pages {
		for _, sc := range p.Sections {
			if sc.SectionID == sectionID {
				count += sc.Items.Len(total)
			}
		}
	}
	return count
}

// checkLayoutProperties asserts the invariants every composed sequence
// carries regardless of which height source produced it.
func checkLayoutProperties(t *testing.T, engine string, pages []layout.Page, doc *resume.Document, cfg layout.Config) {
	t.Helper()

	if len(pages) == 0 {
		t.Fatalf("%s: compose must always return at least one page", engine)
	}
	for i, p := range pages {
		want := layout.HeaderMini
		if i == 0 {
			want = layout.HeaderFull
		}
		if p.Header != want {
			t.Errorf("%s: page %d header = %q, want %q", engine, i, p.Header, want)
		}
	}
	for _, id := range resume.DefaultOrder {
		if cfg.HasSidebar && resume.SidebarSections[id] {
			continue
		}
		total := layout.ItemCount(id, doc)
		if total == 0 {
			continue
		}
		if got := itemsPlaced(pages, id, total); got != total {
			t.Errorf("%s: section %s placed %d of %d items", engine, id, got, total)
		}
		// Title only where the section is entered.
		headers := 0
		for _, p := range pages {
			for _, sc := range p.Sections {
				if sc.SectionID == id && sc.ShowHeader {
					headers++
					if start, _ := sc.Items.Bounds(total); start != 0 {
						t.Errorf("%s: section %s shows its title on range starting at %d", engine, id, start)
					}
				}
			}
		}
		if headers != 1 {
			t.Errorf("%s: section %s titled on %d pages, want 1", engine, id, headers)
		}
	}
}

func experienceRecords(n, tasks int) []resume.ExperienceEntry {
	out := make([]resume.ExperienceEntry, n)
	for i := range out {
		out[i] = resume.ExperienceEntry{
			Company: "Acme AG",
			Role:    "Engineer",
			Start:   "2019",
			End:     "present",
		}
		for j := 0; j < tasks; j++ {
			out[i].Tasks = append(out[i].Tasks, "kept the billing pipeline healthy")
		}
	}
	return out
}

func TestBothEnginesShortDocumentSinglePage(t *testing.T) {
	doc := &resume.Document{
		ID:         "scenario-a",
		Name:       "Mara Keller",
		Summary:    "Backend engineer.",
		Experience: experienceRecords(1, 2),
	}
	cfg := layout.Config{}
	_ = cfg.ValidateAndSetDefaults()

	for engine, pages := range composeBoth(doc, cfg) {
		checkLayoutProperties(t, engine, pages, doc, cfg)
		if len(pages) != 1 {
			t.Fatalf("%s: expected 1 page, got %d", engine, len(pages))
		}
		if len(pages[0].Sections) != 2 {
			t.Fatalf("%s: expected 2 sections, got %d", engine, len(pages[0].Sections))
		}
		for _, sc := range pages[0].Sections {
			if !sc.Items.All {
				t.Errorf("%s: section %s should be placed whole, got %+v", engine, sc.SectionID, sc.Items)
			}
		}
	}
}

func TestBothEnginesLongExperienceSplits(t *testing.T) {
	doc := &resume.Document{
		ID:         "scenario-b",
		Name:       "Mara Keller",
		Experience: experienceRecords(20, 3),
	}
	cfg := layout.Config{}
	_ = cfg.ValidateAndSetDefaults()

	for engine, pages := range composeBoth(doc, cfg) {
		checkLayoutProperties(t, engine, pages, doc, cfg)
		if len(pages) < 2 {
			t.Errorf("%s: 20 records must span multiple pages, got %d", engine, len(pages))
		}
		for _, p := range pages {
			if p.Overflowing {
				t.Errorf("%s: unbounded compose must not flag page %d", engine, p.Index)
			}
		}
	}
}

func TestBothEnginesPageBoundForcesOverflow(t *testing.T) {
	doc := &resume.Document{
		ID:         "scenario-c",
		Name:       "Mara Keller",
		Experience: experienceRecords(20, 3),
	}
	cfg := layout.Config{MaxPages: 2}
	_ = cfg.ValidateAndSetDefaults()

	for engine, pages := range composeBoth(doc, cfg) {
		checkLayoutProperties(t, engine, pages, doc, cfg)
		if len(pages) != 2 {
			t.Fatalf("%s: expected exactly 2 pages, got %d", engine, len(pages))
		}
		if !pages[1].Overflowing {
			t.Errorf("%s: forced final page must be flagged", engine)
		}
		last := pages[1].Sections[len(pages[1].Sections)-1]
		if _, end := last.Items.Bounds(20); end != 19 {
			t.Errorf("%s: final range ends at %d, want 19", engine, end)
		}
	}
}

func TestBothEnginesSidebarExemption(t *testing.T) {
	doc := &resume.Document{
		ID:         "scenario-d",
		Name:       "Mara Keller",
		Experience: experienceRecords(3, 2),
		Skills:     []string{"Go", "SQL", "Kubernetes", "AWS", "Terraform"},
		Languages: []resume.LanguageEntry{
			{Language: "German", Level: "native"},
			{Language: "English", Level: "fluent"},
		},
	}
	cfg := layout.Config{LayoutType: layout.LayoutSidebarLeft}
	_ = cfg.ValidateAndSetDefaults()

	for engine, pages := range composeBoth(doc, cfg) {
		checkLayoutProperties(t, engine, pages, doc, cfg)
		for _, p := range pages {
			if !p.SidebarExtends {
				t.Errorf("%s: page %d must extend the sidebar", engine, p.Index)
			}
			for _, sc := range p.Sections {
				if resume.SidebarSections[sc.SectionID] {
					t.Errorf("%s: sidebar section %s leaked into the main flow", engine, sc.SectionID)
				}
			}
		}
	}
}
