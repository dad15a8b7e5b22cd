package layout

import (
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// =============================================================================
// Estimation constants
// =============================================================================

// Heuristic per-item heights in pixels. These stand in for real rendered
// heights until a measurement pass corrects them; first paint and
// non-interactive contexts use them as-is.
const (
	summaryLineHeight  = 22.0
	summaryLineChars   = 90 // characters per wrapped line at body width
	summaryMinHeight   = 44.0
	experienceBase     = 88.0 // company, role and date lines
	experienceTaskLine = 22.0
	experienceGap      = 16.0
	educationHeight    = 72.0
	chipRowHeight      = 40.0
	chipsPerRow        = 4
	languageRowHeight  = 32.0
	signatureHeight    = 120.0
)

// Heights holds the ordered per-item heights of every non-empty section.
type Heights map[string][]float64

// =============================================================================
// Estimation engine
// =============================================================================

// Estimate returns the heuristic item heights for one section of the
// document. The result is empty for sections with no content; callers
// skip those. Estimate is pure and deterministic.
func Estimate(sectionID string, doc *resume.Document) []float64 {
	switch sectionID {
	case resume.SectionSummary:
		return estimateSummary(doc.Summary)
	case resume.SectionExperience:
		return estimateExperience(doc.Experience)
	case resume.SectionEducation:
		return repeated(educationHeight, len(doc.Education))
	case resume.SectionSkills:
		return estimateChipRows(len(doc.Skills))
	case resume.SectionHobbies:
		return estimateChipRows(len(doc.Hobbies))
	case resume.SectionLanguages:
		return repeated(languageRowHeight, len(doc.Languages))
	case resume.SectionSignature:
		if doc.Signature == nil {
			return nil
		}
		return []float64{signatureHeight}
	}
	return nil
}

// EstimateAll builds the full height map for the given section order.
// Empty sections are omitted.
func EstimateAll(doc *resume.Document, order []string) Heights {
	h := make(Heights, len(order))
	for _, id := range order {
		if hs := Estimate(id, doc); len(hs) > 0 {
			h[id] = hs
		}
	}
	return h
}

// estimateSummary sizes the free-text summary proportionally to its
// character count: one logical item, never split.
func estimateSummary(text string) []float64 {
	if text == "" {
		return nil
	}
	lines := (len(text) + summaryLineChars - 1) / summaryLineChars
	h := float64(lines) * summaryLineHeight
	if h < summaryMinHeight {
		h = summaryMinHeight
	}
	return []float64{h}
}

// estimateExperience sizes each employment record by its task count:
// fixed base plus one line per task plus the inter-record gap.
func estimateExperience(entries []resume.ExperienceEntry) []float64 {
	if len(entries) == 0 {
		return nil
	}
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = experienceBase + float64(len(e.Tasks))*experienceTaskLine + experienceGap
	}
	return out
}

// estimateChipRows chunks chips into fixed-size rows and returns one
// height per row. Wrapping-prone chip content stays atomic at the row
// level, not the chip level.
func estimateChipRows(chips int) []float64 {
	if chips == 0 {
		return nil
	}
	rows := (chips + chipsPerRow - 1) / chipsPerRow
	return repeated(chipRowHeight, rows)
}

func repeated(h float64, n int) []float64 {
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = h
	}
	return out
}

// ItemCount returns the number of layout items a section contributes,
// which for chip sections is the row count rather than the chip count.
func ItemCount(sectionID string, doc *resume.Document) int {
	return len(Estimate(sectionID, doc))
}

// Total returns the summed height of one section's items.
func (h Heights) Total(sectionID string) float64 {
	var sum float64
	for _, v := range h[sectionID] {
		sum += v
	}
	return sum
}

// Rescale returns a copy of the section's heights scaled so their sum
// equals measured. A measured aggregate is the source of truth for
// whether a section fits; the estimated proportions decide how it splits.
func (h Heights) Rescale(sectionID string, measured float64) {
	items := h[sectionID]
	total := h.Total(sectionID)
	if total <= 0 || measured <= 0 {
		return
	}
	factor := measured / total
	scaled := make([]float64, len(items))
	for i, v := range items {
		scaled[i] = v * factor
	}
	h[sectionID] = scaled
}

// Clone deep-copies the height map so a rescaled variant never aliases
// the estimation result.
func (h Heights) Clone() Heights {
	out := make(Heights, len(h))
	for id, items := range h {
		cp := make([]float64, len(items))
		copy(cp, items)
		out[id] = cp
	}
	return out
}
