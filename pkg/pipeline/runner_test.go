package pipeline

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/cache"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

func testDoc() *resume.Document {
	return &resume.Document{
		ID:      "doc-1",
		Name:    "Mara Keller",
		Title:   "Backend Engineer",
		Summary: "Backend engineer with a focus on billing systems and payment infrastructure.",
		Experience: []resume.ExperienceEntry{
			{
				Company: "Acme AG",
				Role:    "Engineer",
				Start:   "2019",
				End:     "present",
				Tasks:   []string{"built the billing pipeline", "ran the on-call rotation"},
			},
		},
		Education: []resume.EducationEntry{
			{School: "ETH Zürich", Degree: "BSc Computer Science", Start: "2015", End: "2019"},
		},
		Skills: []string{"Go", "SQL", "Kubernetes"},
	}
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("nil arguments must be replaced with defaults: %+v", r)
	}
}

func TestExecuteProducesArtifacts(t *testing.T) {
	r := quietRunner(nil)
	opts := Options{Formats: []string{FormatJSON, FormatText}}

	result, err := r.Execute(context.Background(), testDoc(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Pages) == 0 {
		t.Fatal("expected at least one page")
	}
	if result.Stats.PageCount != len(result.Pages) {
		t.Errorf("PageCount = %d, pages = %d", result.Stats.PageCount, len(result.Pages))
	}
	if len(result.DocHash) != 64 || len(result.LayoutHash) != 64 {
		t.Errorf("hashes not set: doc=%q layout=%q", result.DocHash, result.LayoutHash)
	}
	for _, format := range opts.Formats {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing artifact for %q", format)
		}
	}
	if result.CacheInfo.ComposeHit || result.CacheInfo.RenderHit {
		t.Error("null cache must never report hits")
	}
	if !strings.Contains(string(result.Artifacts[FormatText]), "Mara Keller") {
		t.Error("text artifact missing document name")
	}
}

func TestExecuteCacheHitsOnSecondRun(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	defer r.Close()

	doc := testDoc()
	opts := Options{Formats: []string{FormatJSON}}

	first, err := r.Execute(context.Background(), doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ComposeHit || first.CacheInfo.RenderHit {
		t.Error("first run must miss the cache")
	}

	second, err := r.Execute(context.Background(), doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ComposeHit {
		t.Error("second run should hit the compose cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if !reflect.DeepEqual(first.Pages, second.Pages) {
		t.Error("cached pages differ from composed pages")
	}
	if !reflect.DeepEqual(first.Artifacts, second.Artifacts) {
		t.Error("cached artifacts differ from rendered artifacts")
	}
}

func TestExecuteRejectsInvalidDocument(t *testing.T) {
	r := quietRunner(nil)
	bad := testDoc()
	bad.Experience[0].Company = ""

	if _, err := r.Execute(context.Background(), bad, Options{}); err == nil {
		t.Error("document with incomplete experience entry must be rejected")
	}
}

func TestExecuteRejectsInvalidOptions(t *testing.T) {
	r := quietRunner(nil)
	if _, err := r.Execute(context.Background(), testDoc(), Options{Paper: "A5"}); err == nil {
		t.Error("invalid paper must be rejected")
	}
}

func TestComposePagesDeterministic(t *testing.T) {
	doc := testDoc()
	opts := Options{Logger: log.New(io.Discard)}

	a, err := ComposePages(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComposePages(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two compose passes over the same input disagree")
	}
}

func TestComposePagesMeasured(t *testing.T) {
	doc := testDoc()
	opts := Options{Measured: true, Logger: log.New(io.Discard)}

	pages, err := ComposePages(doc, opts)
	if err != nil {
		t.Fatalf("measured compose: %v", err)
	}
	if len(pages) == 0 {
		t.Fatal("expected at least one page")
	}

	// Every item still lands exactly once regardless of height source.
	counts := make(map[string]int)
	want := 0
	for _, id := range resume.DefaultOrder {
		counts[id] = layout.ItemCount(id, doc)
		want += counts[id]
	}
	placed := 0
	for _, p := range pages {
		for _, s := range p.Sections {
			placed += s.Items.Len(counts[s.SectionID])
		}
	}
	if placed != want {
		t.Errorf("placed %d items, document has %d", placed, want)
	}
}

func TestRenderFromPagesUnknownFormat(t *testing.T) {
	doc := testDoc()
	pages, err := ComposePages(doc, Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RenderFromPages(pages, doc, Options{Formats: []string{"docx"}}); err == nil {
		t.Error("unknown format must be rejected")
	}
}
