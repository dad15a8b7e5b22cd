package sink

import (
	"bytes"
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// pxToPt converts the layout engine's 96 DPI pixels to PDF points.
const pxToPt = 72.0 / 96.0

// RenderPDF renders the descriptor sequence as a PDF document. This is
// the export path; it consumes the exact same Page values as the
// interactive preview and maps header mode, sidebar flag and item ranges
// to pages one-to-one, so the export always matches the preview's split.
func RenderPDF(pages []layout.Page, doc *resume.Document, cfg layout.Config) ([]byte, error) {
	pdf := fpdf.New("P", "pt", cfg.PaperSize, "")
	pdf.SetAutoPageBreak(false, 0) // page breaks are the compositor's job
	pdf.SetTitle(doc.Name, true)

	for _, page := range pages {
		renderPDFPage(pdf, page, doc, cfg)
	}
	if len(pages) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDFPage(pdf *fpdf.Fpdf, page layout.Page, doc *resume.Document, cfg layout.Config) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	margin := marginPx * pxToPt
	x := margin
	bodyW := pageW - 2*margin
	if page.SidebarExtends {
		x = sidebarPx*pxToPt + margin
		bodyW = pageW - x - margin
	}

	headerH := renderPDFHeader(pdf, page, doc, pageW)

	if page.SidebarExtends {
		pdf.SetFillColor(243, 243, 243)
		pdf.Rect(0, 0, sidebarPx*pxToPt, pageH, "F")
		renderPDFSidebar(pdf, doc, headerH)
	}

	pdf.SetY(headerH + margin)
	for _, sc := range page.Sections {
		renderPDFSection(pdf, sc, doc, x, bodyW)
	}

	if page.Overflowing {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(176, 0, 32)
		pdf.Text(x, pageH-margin/2, "content exceeds page budget")
		pdf.SetTextColor(0, 0, 0)
	}
}

// renderPDFHeader draws the page header band and returns its height in
// points.
func renderPDFHeader(pdf *fpdf.Fpdf, page layout.Page, doc *resume.Document, pageW float64) float64 {
	margin := marginPx * pxToPt
	switch page.Header {
	case layout.HeaderFull:
		pdf.SetFont("Helvetica", "B", 22)
		pdf.Text(margin, 48, pdfText(doc.Name))
		if doc.Title != "" {
			pdf.SetFont("Helvetica", "", 13)
			pdf.Text(margin, 70, pdfText(doc.Title))
		}
		h := layout.FullHeaderHeight * pxToPt
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(margin, h, pageW-margin, h)
		return h
	case layout.HeaderMini:
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.Text(margin, 28, fmt.Sprintf("%s - page %d", pdfText(doc.Name), page.Index+1))
		pdf.SetTextColor(0, 0, 0)
		h := layout.MiniHeaderHeight * pxToPt
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(margin, h, pageW-margin, h)
		return h
	}
	return 0
}

func renderPDFSidebar(pdf *fpdf.Fpdf, doc *resume.Document, headerH float64) {
	x := marginPx * pxToPt / 2
	w := sidebarPx*pxToPt - 2*x
	pdf.SetY(headerH + marginPx*pxToPt)
	for _, id := range resume.DefaultOrder {
		if !resume.SidebarSections[id] {
			continue
		}
		items := SectionItems(doc, id)
		if len(items) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetX(x)
		pdf.CellFormat(w, titleHeightPx*pxToPt, SectionTitle(id), "", 2, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, item := range items {
			pdf.SetX(x)
			pdf.MultiCell(w, lineHeightPx*pxToPt, pdfText(item), "", "L", false)
		}
		pdf.Ln(lineHeightPx * pxToPt / 2)
	}
}

func renderPDFSection(pdf *fpdf.Fpdf, sc layout.SectionContent, doc *resume.Document, x, w float64) {
	items := SectionItems(doc, sc.SectionID)
	start, end := sc.Items.Bounds(len(items))
	if start < 0 || start >= len(items) {
		return
	}
	if end >= len(items) {
		end = len(items) - 1
	}

	if sc.ShowHeader {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(x)
		pdf.CellFormat(w, titleHeightPx*pxToPt, SectionTitle(sc.SectionID), "", 2, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for i := start; i <= end; i++ {
		pdf.SetX(x)
		pdf.MultiCell(w, lineHeightPx*pxToPt, pdfText(items[i]), "", "L", false)
		pdf.Ln(lineHeightPx * pxToPt / 2)
	}
	pdf.Ln(lineHeightPx * pxToPt / 2)
}

// pdfText downgrades the typographic punctuation the text items use to
// the cp1252 subset the core PDF fonts cover.
var pdfReplacer = strings.NewReplacer("\u2014", "-", "\u2013", "-", "\u2022", "*", "\u00b7", "|")

func pdfText(s string) string {
	return pdfReplacer.Replace(s)
}
