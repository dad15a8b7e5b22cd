package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// Page geometry in pixels at 96 DPI, shared with the PDF sink so both
// export paths produce the same frame.
const (
	pageWidthA4     = 794.0
	pageWidthLetter = 816.0
	sidebarPx       = 220.0
	marginPx        = 24.0
	pageGapPx       = 16.0
	lineHeightPx    = 22.0
	titleHeightPx   = 36.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	singlePage int // -1 renders the whole stack
}

// WithSVGPage restricts output to the page with the given index.
func WithSVGPage(index int) SVGOption {
	return func(r *svgRenderer) { r.singlePage = index }
}

// RenderSVG renders the descriptor sequence as a vertical stack of page
// frames. Every page is drawn from its descriptor alone: header band by
// header mode, sidebar column when the descriptor says so, and exactly
// the item ranges the compositor assigned.
func RenderSVG(pages []layout.Page, doc *resume.Document, cfg layout.Config, opts ...SVGOption) []byte {
	r := svgRenderer{singlePage: -1}
	for _, opt := range opts {
		opt(&r)
	}

	selected := pages
	if r.singlePage >= 0 {
		selected = nil
		for _, p := range pages {
			if p.Index == r.singlePage {
				selected = []layout.Page{p}
			}
		}
	}

	w := pageWidth(cfg)
	h := cfg.PageHeight()
	total := float64(len(selected))*(h+pageGapPx) - pageGapPx
	if total < h {
		total = h
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		w, total, w, total)
	buf.WriteString(`<style>text{font-family:Helvetica,Arial,sans-serif;font-size:13px}.title{font-size:15px;font-weight:bold}.head{font-size:22px;font-weight:bold}.warn{fill:#b00020;font-weight:bold}</style>` + "\n")

	var y float64
	for _, page := range selected {
		renderSVGPage(&buf, page, doc, cfg, y, w, h)
		y += h + pageGapPx
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSVGPage(buf *bytes.Buffer, page layout.Page, doc *resume.Document, cfg layout.Config, top, w, h float64) {
	fmt.Fprintf(buf, `<rect x="0" y="%.1f" width="%.0f" height="%.0f" fill="white" stroke="#999"/>`+"\n", top, w, h)

	// Header band
	headerH := 0.0
	switch page.Header {
	case layout.HeaderFull:
		headerH = layout.FullHeaderHeight
		fmt.Fprintf(buf, `<text class="head" x="%.0f" y="%.1f">%s</text>`+"\n",
			marginPx, top+48, html.EscapeString(doc.Name))
		if doc.Title != "" {
			fmt.Fprintf(buf, `<text x="%.0f" y="%.1f">%s</text>`+"\n",
				marginPx, top+76, html.EscapeString(doc.Title))
		}
	case layout.HeaderMini:
		headerH = layout.MiniHeaderHeight
		fmt.Fprintf(buf, `<text x="%.0f" y="%.1f" fill="#666">%s — page %d</text>`+"\n",
			marginPx, top+32, html.EscapeString(doc.Name), page.Index+1)
	}
	if headerH > 0 {
		fmt.Fprintf(buf, `<line x1="%.0f" y1="%.1f" x2="%.0f" y2="%.1f" stroke="#ccc"/>`+"\n",
			marginPx, top+headerH, w-marginPx, top+headerH)
	}

	// Sidebar column, full page height, outside the main flow
	x := marginPx
	if page.SidebarExtends {
		fmt.Fprintf(buf, `<rect x="0" y="%.1f" width="%.0f" height="%.0f" fill="#f3f3f3"/>`+"\n", top, sidebarPx, h)
		renderSVGSidebar(buf, doc, top, headerH)
		x = sidebarPx + marginPx
	}

	y := top + headerH + marginPx
	for _, sc := range page.Sections {
		y = renderSVGSection(buf, sc, doc, x, y)
	}

	if page.Overflowing {
		fmt.Fprintf(buf, `<text class="warn" x="%.0f" y="%.1f">content exceeds page budget</text>`+"\n",
			x, top+h-12)
	}
}

func renderSVGSidebar(buf *bytes.Buffer, doc *resume.Document, top, headerH float64) {
	y := top + headerH + marginPx
	for _, id := range resume.DefaultOrder {
		if !resume.SidebarSections[id] {
			continue
		}
		items := SectionItems(doc, id)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(buf, `<text class="title" x="%.0f" y="%.1f">%s</text>`+"\n",
			marginPx/2, y+16, html.EscapeString(SectionTitle(id)))
		y += titleHeightPx
		for _, item := range items {
			fmt.Fprintf(buf, `<text x="%.0f" y="%.1f">%s</text>`+"\n",
				marginPx/2, y+14, html.EscapeString(item))
			y += lineHeightPx
		}
		y += lineHeightPx
	}
}

func renderSVGSection(buf *bytes.Buffer, sc layout.SectionContent, doc *resume.Document, x, y float64) float64 {
	items := SectionItems(doc, sc.SectionID)
	start, end := sc.Items.Bounds(len(items))
	if start < 0 || start >= len(items) {
		return y
	}
	if end >= len(items) {
		end = len(items) - 1
	}

	if sc.ShowHeader {
		fmt.Fprintf(buf, `<text class="title" x="%.0f" y="%.1f">%s</text>`+"\n",
			x, y+18, html.EscapeString(SectionTitle(sc.SectionID)))
		y += titleHeightPx
	}
	for i := start; i <= end; i++ {
		for _, line := range splitLines(items[i]) {
			fmt.Fprintf(buf, `<text x="%.0f" y="%.1f">%s</text>`+"\n",
				x, y+14, html.EscapeString(line))
			y += lineHeightPx
		}
		y += lineHeightPx / 2
	}
	return y + lineHeightPx
}

func pageWidth(cfg layout.Config) float64 {
	if cfg.PaperSize == layout.PaperLetter {
		return pageWidthLetter
	}
	return pageWidthA4
}
