package measure

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// =============================================================================
// States
// =============================================================================

// State is the coordinator's position in the measure loop.
type State string

// Coordinator states. Idle means nothing is scheduled, Measuring means a
// settle timer is pending or a pass found no boxes yet, Settled means the
// latest published sequence reflects a successful measurement.
const (
	StateIdle      State = "idle"
	StateMeasuring State = "measuring"
	StateSettled   State = "settled"
)

// DefaultSettleDelay is how long a pass waits for the off-screen render
// to finish before heights are trusted. It is pragmatic, not
// correctness-critical; platforms with a layout-complete signal can use
// a schedule hook that fires on that signal instead.
const DefaultSettleDelay = 120 * time.Millisecond

// Source produces the rendered off-screen container at measurement time.
// Returning nil means the container is not attached yet.
type Source func(doc *resume.Document, cfg layout.Config) Boxes

// Subscriber receives each newly published descriptor sequence. The slice
// is immutable by convention: subscribers read, never patch.
type Subscriber func(pages []layout.Page)

// scheduleFunc schedules fn after d and returns a cancel function.
// Production uses time.AfterFunc; tests inject a manual trigger.
type scheduleFunc func(d time.Duration, fn func()) (cancel func())

// =============================================================================
// Coordinator
// =============================================================================

// Coordinator drives the render → settle → measure → recompose loop and
// republishes page descriptors reactively on content or config changes.
type Coordinator struct {
	mu     sync.Mutex
	state  State
	settle time.Duration

	source   Source
	schedule scheduleFunc
	logger   *log.Logger

	// gen identifies the most recent Update; a settled timer belonging
	// to an older generation is stale and ignored. Superseding a pending
	// pass is this comparison, not cooperative cancellation.
	gen    int
	cancel func()

	doc *resume.Document
	cfg layout.Config

	published []layout.Page
	subs      []Subscriber
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettleDelay overrides the settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.settle = d }
}

// WithSchedule overrides the timer implementation. Tests use this to run
// the loop against a fake clock.
func WithSchedule(s scheduleFunc) Option {
	return func(c *Coordinator) { c.schedule = s }
}

// WithLogger attaches a logger for debug tracing of the loop.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// NewCoordinator creates a coordinator reading from the given source.
func NewCoordinator(source Source, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:  StateIdle,
		settle: DefaultSettleDelay,
		source: source,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.schedule == nil {
		c.schedule = func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pages returns the most recently published descriptor sequence. Before
// the first successful measurement this is the synchronous estimate, so
// there is never a flash of empty content.
func (c *Coordinator) Pages() []layout.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published
}

// Subscribe registers a subscriber for future publications.
func (c *Coordinator) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Update notifies the coordinator of new document content or layout
// configuration. It immediately publishes an estimation-based sequence
// (first paint), then schedules a measurement pass after the settle
// delay. A pass still pending is superseded: rapid edits debounce into
// one measurement.
func (c *Coordinator) Update(doc *resume.Document, cfg layout.Config) {
	_ = cfg.ValidateAndSetDefaults()

	c.mu.Lock()
	c.doc = doc
	c.cfg = cfg
	c.state = StateMeasuring
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}

	order := sectionOrder(doc, cfg)
	estimate := layout.Compose(layout.EstimateAll(doc, order), order, cfg)
	subs := c.publishLocked(estimate)

	c.cancel = c.schedule(c.settle, func() { c.measure(gen) })
	c.mu.Unlock()

	notify(subs, estimate)
}

// measure runs one measurement pass for the given generation.
func (c *Coordinator) measure(gen int) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return // superseded by a newer Update
	}
	doc, cfg := c.doc, c.cfg
	c.mu.Unlock()

	measured := c.readSource(doc, cfg)
	if len(measured) == 0 {
		// Container not attached or nothing rendered yet: keep the
		// previous descriptors visible and wait for the next change.
		c.logger.Debug("measurement empty, keeping previous pages")
		return
	}

	order := sectionOrder(doc, cfg)
	corrected := Apply(layout.EstimateAll(doc, order), measured)
	pages := layout.Compose(corrected, order, cfg)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = StateSettled
	subs := c.publishLocked(pages)
	c.mu.Unlock()

	notify(subs, pages)
	c.logger.Debug("measurement settled",
		"sections", len(measured),
		"pages", len(pages))
}

// readSource queries the off-screen container. A panicking source is
// treated the same as an unattached container.
func (c *Coordinator) readSource(doc *resume.Document, cfg layout.Config) (out []SectionHeight) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("measurement source panicked", "cause", r)
			out = nil
		}
	}()
	if c.source == nil {
		return nil
	}
	return Read(c.source(doc, cfg))
}

// publishLocked replaces the published sequence and returns the
// subscribers to notify. Callers hold c.mu and run the notifications
// after releasing it.
func (c *Coordinator) publishLocked(pages []layout.Page) []Subscriber {
	c.published = pages
	subs := make([]Subscriber, len(c.subs))
	copy(subs, c.subs)
	return subs
}

// notify delivers a published sequence to subscribers.
func notify(subs []Subscriber, pages []layout.Page) {
	for _, fn := range subs {
		fn(pages)
	}
}

// sectionOrder resolves the effective order: config override, else the
// document's non-empty sections in the default order.
func sectionOrder(doc *resume.Document, cfg layout.Config) []string {
	if len(cfg.SectionOrder) > 0 {
		return doc.NonEmptySections(cfg.SectionOrder)
	}
	return doc.NonEmptySections(resume.DefaultOrder)
}
