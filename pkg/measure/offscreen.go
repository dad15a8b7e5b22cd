package measure

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/render/sink"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// pxPerLine converts a rendered preview line to pixels. It matches the
// body line height the estimation engine assumes, so measured and
// estimated heights live on the same scale.
const pxPerLine = 22.0

// Offscreen is a rendered container built by laying the whole document
// out invisibly with the preview renderer. Each section subtree is tagged
// with its identifier; heights come from the real wrapped line counts of
// the render, not from content-size heuristics.
type Offscreen struct {
	heights map[string]float64
	ids     []string
}

// RenderOffscreen lays out every non-empty section of the document at the
// preview body width and records its rendered height.
func RenderOffscreen(doc *resume.Document, cfg layout.Config) *Offscreen {
	o := &Offscreen{heights: make(map[string]float64)}
	if doc == nil {
		return o
	}
	for _, id := range resume.DefaultOrder {
		rendered := sink.RenderSectionText(doc, id, sink.BodyWidth)
		if rendered == "" {
			continue
		}
		o.ids = append(o.ids, id)
		o.heights[id] = float64(lipgloss.Height(rendered)) * pxPerLine
	}
	return o
}

// SectionIDs lists the tagged sections present in the container.
func (o *Offscreen) SectionIDs() []string { return o.ids }

// SectionHeight returns the rendered height of the tagged section.
func (o *Offscreen) SectionHeight(sectionID string) (float64, bool) {
	h, ok := o.heights[sectionID]
	return h, ok
}

// OffscreenSource adapts RenderOffscreen for the Coordinator.
func OffscreenSource() Source {
	return func(doc *resume.Document, cfg layout.Config) Boxes {
		return RenderOffscreen(doc, cfg)
	}
}

var _ Boxes = (*Offscreen)(nil)
