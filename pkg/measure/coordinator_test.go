package measure

import (
	"reflect"
	"testing"
	"time"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// fakeClock captures scheduled settle timers so tests drive the loop
// deterministically.
type fakeClock struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	fn        func()
	cancelled bool
}

func (c *fakeClock) schedule(d time.Duration, fn func()) func() {
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	return func() { t.cancelled = true }
}

// fire runs every pending timer that was not cancelled.
func (c *fakeClock) fire() {
	for _, t := range c.timers {
		if !t.cancelled {
			t.fn()
		}
	}
	c.timers = nil
}

func testDoc() *resume.Document {
	return &resume.Document{
		ID:      "doc-1",
		Name:    "Mara Keller",
		Summary: "Engineer.",
		Experience: []resume.ExperienceEntry{
			{Company: "Acme", Role: "Engineer", Tasks: []string{"build", "ship"}},
		},
	}
}

func TestCoordinatorPublishesEstimateImmediately(t *testing.T) {
	clock := &fakeClock{}
	source := func(doc *resume.Document, cfg layout.Config) Boxes {
		return fakeBoxes{"summary": 50, "experience": 160}
	}
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	var published [][]layout.Page
	c.Subscribe(func(pages []layout.Page) { published = append(published, pages) })

	c.Update(testDoc(), layout.Config{})

	if len(published) != 1 {
		t.Fatalf("expected 1 immediate publication, got %d", len(published))
	}
	if len(published[0]) == 0 {
		t.Error("estimate publication must carry at least one page")
	}
	if got := c.State(); got != StateMeasuring {
		t.Errorf("state after update = %q, want %q", got, StateMeasuring)
	}
}

func TestCoordinatorSettlesAfterMeasurement(t *testing.T) {
	clock := &fakeClock{}
	source := func(doc *resume.Document, cfg layout.Config) Boxes {
		return fakeBoxes{"summary": 50, "experience": 160}
	}
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	count := 0
	c.Subscribe(func([]layout.Page) { count++ })

	c.Update(testDoc(), layout.Config{})
	clock.fire()

	if count != 2 {
		t.Fatalf("expected estimate + settled publications, got %d", count)
	}
	if got := c.State(); got != StateSettled {
		t.Errorf("state after measurement = %q, want %q", got, StateSettled)
	}
	if len(c.Pages()) == 0 {
		t.Error("settled sequence must be non-empty")
	}
}

func TestCoordinatorDebouncesRapidUpdates(t *testing.T) {
	clock := &fakeClock{}
	passes := 0
	source := func(doc *resume.Document, cfg layout.Config) Boxes {
		passes++
		return fakeBoxes{"summary": 50}
	}
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	count := 0
	c.Subscribe(func([]layout.Page) { count++ })

	doc := testDoc()
	c.Update(doc, layout.Config{})
	c.Update(doc, layout.Config{MaxPages: 1})
	c.Update(doc, layout.Config{MaxPages: 2})

	if !clock.timers[0].cancelled || !clock.timers[1].cancelled {
		t.Error("superseded settle timers must be cancelled")
	}

	clock.fire()

	if passes != 1 {
		t.Errorf("rapid updates must collapse into one measurement pass, got %d", passes)
	}
	// Three immediate estimates plus one settled publication.
	if count != 4 {
		t.Errorf("expected 4 publications, got %d", count)
	}
}

func TestCoordinatorStaleGenerationIgnored(t *testing.T) {
	clock := &fakeClock{}
	source := func(doc *resume.Document, cfg layout.Config) Boxes {
		return fakeBoxes{"summary": 50}
	}
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	c.Update(testDoc(), layout.Config{})
	stale := clock.timers[0]

	c.Update(testDoc(), layout.Config{MaxPages: 3})

	// Run the first timer as if its cancellation raced the firing.
	stale.fn()

	if got := c.State(); got != StateMeasuring {
		t.Errorf("stale pass must not settle the coordinator, state = %q", got)
	}
}

func TestCoordinatorEmptyMeasurementKeepsPrevious(t *testing.T) {
	clock := &fakeClock{}
	source := func(doc *resume.Document, cfg layout.Config) Boxes { return nil }
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	count := 0
	c.Subscribe(func([]layout.Page) { count++ })

	c.Update(testDoc(), layout.Config{})
	before := c.Pages()
	clock.fire()

	if count != 1 {
		t.Errorf("empty measurement must not republish, got %d publications", count)
	}
	if got := c.State(); got != StateMeasuring {
		t.Errorf("state = %q, want %q", got, StateMeasuring)
	}
	if !reflect.DeepEqual(before, c.Pages()) {
		t.Error("previously published sequence must stand")
	}
}

func TestCoordinatorPanickingSourceTreatedAsEmpty(t *testing.T) {
	clock := &fakeClock{}
	source := func(doc *resume.Document, cfg layout.Config) Boxes {
		panic("detached container")
	}
	c := NewCoordinator(source, WithSchedule(clock.schedule))

	c.Update(testDoc(), layout.Config{})
	before := c.Pages()

	clock.fire() // must not propagate the panic

	if !reflect.DeepEqual(before, c.Pages()) {
		t.Error("published sequence must survive a panicking source")
	}
}
