package errors

import (
	"unicode"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// maxFieldLen bounds free-text fields so a malformed input file cannot
// blow up the estimation pass or the render buffers.
const maxFieldLen = 20000

// ValidateDocument checks a loaded document for the problems that would
// make composition or rendering meaningless. It is deliberately lenient:
// an empty document is valid (it composes to a single empty page), and
// missing optional fields are fine.
func ValidateDocument(d *resume.Document) error {
	if d == nil {
		return New(ErrCodeInvalidDocument, "document is nil")
	}
	if err := validateText("summary", d.Summary); err != nil {
		return err
	}
	for i, e := range d.Experience {
		if e.Company == "" && e.Role == "" {
			return New(ErrCodeInvalidDocument, "experience entry %d has neither company nor role", i)
		}
		for j, task := range e.Tasks {
			if err := validateText("task", task); err != nil {
				return Wrap(ErrCodeInvalidDocument, err, "experience entry %d task %d", i, j)
			}
		}
	}
	for i, e := range d.Education {
		if e.School == "" && e.Degree == "" {
			return New(ErrCodeInvalidDocument, "education entry %d has neither school nor degree", i)
		}
	}
	for i, l := range d.Languages {
		if l.Language == "" {
			return New(ErrCodeInvalidDocument, "language entry %d has no language", i)
		}
	}
	return nil
}

// validateText rejects oversized fields and control characters that
// would corrupt the text render paths.
func validateText(field, s string) error {
	if len(s) > maxFieldLen {
		return New(ErrCodeInvalidDocument, "%s too long (%d bytes, max %d)", field, len(s), maxFieldLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return New(ErrCodeInvalidDocument, "%s contains control characters", field)
		}
	}
	return nil
}
