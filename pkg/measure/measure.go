// Package measure corrects the heuristic height model with real rendered
// box heights and coordinates the render → settle → measure → recompose
// feedback loop.
//
// The estimation engine in pkg/layout runs synchronously with constants;
// it is what first paint uses. Once an off-screen render of the full
// document exists, this package reads one aggregate height per section
// from it and rescales the estimated item heights so each section sums to
// its measured height. The measured aggregate decides whether a section
// fits; the estimated proportions decide where it splits.
//
// The Coordinator owns the loop: any document or configuration change
// schedules a measurement pass after a settle delay, superseding any pass
// still pending, and publishes a brand-new page descriptor sequence to
// subscribers when measurement succeeds. Failed or empty measurements
// leave the previously published sequence standing.
package measure

import (
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
)

// =============================================================================
// Rendered container abstraction
// =============================================================================

// Boxes is a rendered off-screen container the measurement engine can
// query. Each section's root is tagged with its section identifier; the
// container reports the aggregate rendered height of that subtree in
// pixels.
type Boxes interface {
	// SectionIDs lists the tagged sections present in the container.
	SectionIDs() []string

	// SectionHeight returns the rendered box height of the tagged
	// section and whether the section is present.
	SectionHeight(sectionID string) (float64, bool)
}

// SectionHeight is one measured aggregate: a section identifier and its
// rendered pixel height.
type SectionHeight struct {
	SectionID string  `json:"section_id"`
	Height    float64 `json:"height"`
}

// =============================================================================
// Measurement engine
// =============================================================================

// Read extracts the measured section heights from a rendered container.
// A nil or not-yet-attached container yields no measurements rather than
// an error; callers treat an empty result as "previous layout stands".
func Read(boxes Boxes) []SectionHeight {
	if boxes == nil {
		return nil
	}
	ids := boxes.SectionIDs()
	out := make([]SectionHeight, 0, len(ids))
	for _, id := range ids {
		h, ok := boxes.SectionHeight(id)
		if !ok || h <= 0 {
			continue
		}
		out = append(out, SectionHeight{SectionID: id, Height: h})
	}
	return out
}

// Apply returns a copy of the estimated heights with each measured
// section rescaled so its items sum to the measured aggregate. Sections
// without a measurement keep their estimates; measurements for unknown
// sections are ignored.
func Apply(estimated layout.Heights, measured []SectionHeight) layout.Heights {
	corrected := estimated.Clone()
	for _, m := range measured {
		if _, ok := corrected[m.SectionID]; !ok {
			continue
		}
		corrected.Rescale(m.SectionID, m.Height)
	}
	return corrected
}
