package sink

import (
	"encoding/json"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	doc *resume.Document
	cfg *layout.Config
}

// WithJSONDocument records the document identity in the output so cached
// or exported sequences can be traced back to their source content.
func WithJSONDocument(d *resume.Document) JSONOption {
	return func(r *jsonRenderer) { r.doc = d }
}

// WithJSONConfig records the layout configuration the sequence was
// composed under, enabling round-trip re-rendering.
func WithJSONConfig(c layout.Config) JSONOption {
	return func(r *jsonRenderer) { r.cfg = &c }
}

type jsonOutput struct {
	DocumentID string        `json:"document_id,omitempty"`
	PaperSize  string        `json:"paper_size,omitempty"`
	LayoutType string        `json:"layout_type,omitempty"`
	MaxPages   int           `json:"max_pages,omitempty"`
	PageCount  int           `json:"page_count"`
	Pages      []layout.Page `json:"pages"`
}

// RenderJSON exports the page descriptor sequence as a pretty-printed
// JSON document. This is the primary interchange format: external
// renderers consuming it must reproduce the same page assignment the
// preview shows, since the descriptors are the whole contract.
func RenderJSON(pages []layout.Page, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		PageCount: len(pages),
		Pages:     pages,
	}
	if r.doc != nil {
		out.DocumentID = r.doc.ID
	}
	if r.cfg != nil {
		out.PaperSize = r.cfg.PaperSize
		out.LayoutType = r.cfg.LayoutType
		out.MaxPages = r.cfg.MaxPages
	}
	return json.MarshalIndent(out, "", "  ")
}
