package layout

// The compositor is a greedy first-fit bin packer: one pass over the
// sections in their given order, accumulating items into the current page
// until the next item no longer fits, then opening a continuation page.
// It never fails; every anomaly degrades to a still-valid descriptor
// sequence plus an advisory flag.

import "github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"

// composer carries the packing state for one Compose pass.
type composer struct {
	cfg     Config
	sidebar bool

	pages    []Page
	current  *Page
	used     float64
	capacity float64
	forced   bool
}

// Compose splits the document's sections across pages. heights holds the
// ordered per-item heights of every non-empty section (estimated or
// measurement-corrected), order is the externally supplied section order,
// and cfg the paper and layout configuration.
//
// Guarantees, for all inputs:
//   - at least one page is returned (an empty document yields a single
//     page with the full header and no sections),
//   - page zero carries the full header, every later page the mini header,
//   - no item index is ever split: items move between pages whole,
//   - each section's placed ranges cover its items exactly once,
//   - identical inputs produce structurally identical output.
func Compose(heights Heights, order []string, cfg Config) []Page {
	_ = cfg.ValidateAndSetDefaults()

	c := &composer{
		cfg:     cfg,
		sidebar: cfg.HasSidebar || cfg.LayoutType == LayoutSidebarLeft,
	}
	c.open()

	for _, sectionID := range order {
		if c.sidebar && resume.SidebarSections[sectionID] {
			continue // rendered once, full height, outside the flow
		}
		items := heights[sectionID]
		if len(items) == 0 {
			continue
		}
		c.placeSection(sectionID, items)
	}

	c.close()
	return c.pages
}

// placeSection walks one section's items, packing them into pages.
func (c *composer) placeSection(sectionID string, items []float64) {
	if c.forced {
		// A previous section already hit the page bound; everything
		// remaining lands on the final page.
		c.commitRange(sectionID, 0, len(items)-1, len(items))
		return
	}

	start := 0
	for idx, h := range items {
		need := h
		if idx == 0 {
			// Entering the section reserves its title height. Continuation
			// pages of a split section repeat neither title nor reservation.
			need += SectionHeaderHeight
		}

		if c.used+need <= c.capacity {
			c.used += need
			continue
		}

		if c.pageEmpty() {
			// Single item taller than the page body: placed alone, allowed
			// to exceed the nominal bounds, flagged visibly.
			c.current.Overflowing = true
			c.used += need
			continue
		}

		// The item does not fit and the page holds content. Either close
		// the page and continue on a fresh one, or, at the page bound,
		// force the remainder onto this page.
		if c.atPageBound() {
			c.forced = true
			c.current.Overflowing = true
			c.commitRange(sectionID, start, len(items)-1, len(items))
			return
		}
		c.commitRange(sectionID, start, idx-1, len(items))
		c.nextPage()
		// need still includes the title height when this is the section's
		// first item: the title moves to the fresh page with it. A spilled
		// item taller than a whole page body stands alone and is flagged.
		c.used += need
		if need > c.capacity {
			c.current.Overflowing = true
		}
		start = idx
	}
	c.commitRange(sectionID, start, len(items)-1, len(items))
}

// commitRange records [start,end] of the section on the current page.
// A range covering the whole section collapses to the "all" form.
func (c *composer) commitRange(sectionID string, start, end, total int) {
	if end < start {
		return
	}
	r := Span(start, end)
	if start == 0 && end == total-1 {
		r = WholeSection
	}
	c.current.Sections = append(c.current.Sections, SectionContent{
		SectionID:  sectionID,
		Items:      r,
		ShowHeader: start == 0,
	})
}

// pageEmpty reports whether nothing has been placed on the current page.
func (c *composer) pageEmpty() bool {
	return c.used == 0 && len(c.current.Sections) == 0
}

// atPageBound reports whether opening another page would exceed MaxPages.
func (c *composer) atPageBound() bool {
	return c.cfg.MaxPages > 0 && len(c.pages)+1 >= c.cfg.MaxPages
}

// open starts page zero.
func (c *composer) open() {
	c.current = &Page{
		Index:          0,
		Header:         HeaderFull,
		SidebarExtends: c.sidebar,
	}
	c.used = 0
	c.capacity = c.cfg.BodyHeight(0)
}

// nextPage closes the current page and opens a mini-header continuation.
func (c *composer) nextPage() {
	idx := c.current.Index + 1
	c.close()
	c.current = &Page{
		Index:          idx,
		Header:         HeaderMini,
		SidebarExtends: c.sidebar,
	}
	c.used = 0
	c.capacity = c.cfg.BodyHeight(idx)
}

// close pushes the current page onto the result.
func (c *composer) close() {
	if c.current == nil {
		return
	}
	c.pages = append(c.pages, *c.current)
	c.current = nil
}
