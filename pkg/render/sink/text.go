package sink

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// Preview geometry in terminal cells.
const (
	// BodyWidth is the wrapped text width of the main flow.
	BodyWidth = 64

	// SidebarWidth is the width of the persistent side column.
	SidebarWidth = 24
)

var (
	pageFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	fullHeaderStyle = lipgloss.NewStyle().Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false)
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle          = lipgloss.NewStyle().Faint(true)
	warnStyle         = lipgloss.NewStyle().Bold(true).Reverse(true)
	sidebarStyle      = lipgloss.NewStyle().
				Width(SidebarWidth).
				Border(lipgloss.NormalBorder(), false, true, false, false).
				PaddingRight(1)
	bodyStyle = lipgloss.NewStyle().Width(BodyWidth)
)

// TextOption configures text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	plain bool
}

// WithPlainText disables styling, producing stable output for files and
// tests rather than a styled terminal frame.
func WithPlainText() TextOption { return func(r *textRenderer) { r.plain = true } }

// RenderText renders the composed pages as terminal text. This is the
// interactive preview representation: every page is drawn from its
// descriptor alone, so the preview shows exactly what the export paths
// will produce for the same sequence.
func RenderText(pages []layout.Page, doc *resume.Document, cfg layout.Config, opts ...TextOption) []byte {
	r := textRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var b strings.Builder
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(RenderPageText(page, doc, cfg, opts...))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// RenderPageText renders a single page descriptor.
func RenderPageText(page layout.Page, doc *resume.Document, cfg layout.Config, opts ...TextOption) string {
	r := textRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	body := renderPageBody(page, doc, r)
	if page.SidebarExtends {
		body = joinSidebar(renderSidebar(doc, r), body, r)
	}

	var b strings.Builder
	b.WriteString(renderPageHeader(page, doc, r))
	b.WriteString("\n\n")
	b.WriteString(body)
	if page.Overflowing {
		b.WriteString("\n\n")
		b.WriteString(r.style(warnStyle, " content exceeds page budget "))
	}

	if r.plain {
		return fmt.Sprintf("--- page %d [%s] ---\n%s", page.Index+1, page.Header, b.String())
	}
	return pageFrameStyle.Render(b.String())
}

func renderPageHeader(page layout.Page, doc *resume.Document, r textRenderer) string {
	switch page.Header {
	case layout.HeaderFull:
		head := doc.Name
		if doc.Title != "" {
			head += "\n" + doc.Title
		}
		return r.style(fullHeaderStyle, head)
	case layout.HeaderMini:
		return r.style(dimStyle, fmt.Sprintf("%s — page %d", doc.Name, page.Index+1))
	default:
		return ""
	}
}

func renderPageBody(page layout.Page, doc *resume.Document, r textRenderer) string {
	blocks := make([]string, 0, len(page.Sections))
	for _, sc := range page.Sections {
		blocks = append(blocks, renderSectionContent(sc, doc, r))
	}
	if len(blocks) == 0 {
		return r.style(dimStyle, "(empty page)")
	}
	return strings.Join(blocks, "\n\n")
}

// renderSectionContent renders the slice of a section assigned to one
// page: optional title, then exactly the items in the descriptor range.
func renderSectionContent(sc layout.SectionContent, doc *resume.Document, r textRenderer) string {
	items := SectionItems(doc, sc.SectionID)
	start, end := sc.Items.Bounds(len(items))
	if start < 0 || start >= len(items) {
		return ""
	}
	if end >= len(items) {
		end = len(items) - 1
	}

	var b strings.Builder
	if sc.ShowHeader {
		b.WriteString(r.style(sectionTitleStyle, SectionTitle(sc.SectionID)))
		b.WriteString("\n")
	}
	for i := start; i <= end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		b.WriteString(r.wrap(items[i]))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSectionText renders one whole section at the given wrap width.
// The off-screen measurer reads rendered heights from this output.
func RenderSectionText(doc *resume.Document, sectionID string, width int) string {
	items := SectionItems(doc, sectionID)
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(SectionTitle(sectionID))
	b.WriteString("\n")
	style := lipgloss.NewStyle().Width(width)
	for _, item := range items {
		b.WriteString(style.Render(item))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSidebar(doc *resume.Document, r textRenderer) string {
	var blocks []string
	for _, id := range resume.DefaultOrder {
		if !resume.SidebarSections[id] {
			continue
		}
		items := SectionItems(doc, id)
		if len(items) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(r.style(sectionTitleStyle, SectionTitle(id)))
		for _, item := range items {
			b.WriteString("\n")
			b.WriteString(item)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func joinSidebar(side, body string, r textRenderer) string {
	if r.plain {
		return "[sidebar]\n" + side + "\n[/sidebar]\n" + body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(side),
		bodyStyle.Render(body))
}

func (r textRenderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r textRenderer) wrap(text string) string {
	if r.plain {
		return text
	}
	return bodyStyle.Render(text)
}
