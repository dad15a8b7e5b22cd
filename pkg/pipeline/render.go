package pipeline

import (
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/errors"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/render/sink"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// RenderFromPages renders the requested output formats from a descriptor
// sequence. Every format reads the same pages, so the outputs agree on
// page count, header modes, and item placement.
func RenderFromPages(pages []layout.Page, doc *resume.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg := opts.Config()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(pages, doc, cfg, format)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(pages []layout.Page, doc *resume.Document, cfg layout.Config, format string) ([]byte, error) {
	switch format {
	case FormatText:
		return sink.RenderText(pages, doc, cfg, sink.WithPlainText()), nil
	case FormatJSON:
		return sink.RenderJSON(pages, sink.WithJSONDocument(doc), sink.WithJSONConfig(cfg))
	case FormatSVG:
		return sink.RenderSVG(pages, doc, cfg), nil
	case FormatPDF:
		return sink.RenderPDF(pages, doc, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q", format)
	}
}
