// Package resume defines the structured document model that the layout
// engine paginates.
//
// A Document is an ordered collection of Sections, each holding the atomic
// Items of one semantic group (employment records, degrees, skill chips,
// language rows, a signature block). Items are the smallest unit the
// paginator will ever place: an item is wholly on one page or wholly on
// another, never split.
//
// The package also owns the canonical JSON serialization used for CLI
// input, the HTTP preview surface, and cache keys. The format is designed
// for round-trip fidelity: import → compose → export → re-import produces
// identical results.
package resume

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// =============================================================================
// Section identifiers - Single Source of Truth
// =============================================================================

// Well-known section identifiers. Section order is supplied externally
// (regional defaults or user override); these constants only name the
// sections the height model knows how to size.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionLanguages  = "languages"
	SectionHobbies    = "hobbies"
	SectionSignature  = "signature"
)

// DefaultOrder is the fallback main-flow section order used when no
// external order is supplied.
var DefaultOrder = []string{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionLanguages,
	SectionHobbies,
	SectionSignature,
}

// SidebarSections are the sections that move into the persistent side
// column when the sidebar layout is active. They are rendered once at
// full page height and are exempt from the main flow's page-break math.
var SidebarSections = map[string]bool{
	SectionSkills:    true,
	SectionLanguages: true,
}

// =============================================================================
// Document
// =============================================================================

// Document is a complete CV: identity plus per-section content.
// Sections with no items are omitted from layout entirely.
type Document struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Title      string            `json:"title,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Languages  []LanguageEntry   `json:"languages,omitempty"`
	Hobbies    []string          `json:"hobbies,omitempty"`
	Signature  *Signature        `json:"signature,omitempty"`
}

// ExperienceEntry is one employment record. Tasks are the bullet lines
// under the record; the estimation engine sizes the record by task count.
type ExperienceEntry struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Location string   `json:"location,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Tasks    []string `json:"tasks,omitempty"`
}

// EducationEntry is one degree record.
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// LanguageEntry is one language proficiency row.
type LanguageEntry struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

// Signature is the fixed sign-off block (place, date, scanned signature)
// customary on Swiss and German CVs. It lays out as a single atomic item.
type Signature struct {
	Place string `json:"place,omitempty"`
	Date  string `json:"date,omitempty"`
}

// New creates an empty document with a fresh identity.
func New(name string) *Document {
	return &Document{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// ItemCount returns the number of atomic items the given section
// contributes to layout. Skill and hobby chips are grouped into rows by
// the height model, so this counts raw entries, not layout items.
func (d *Document) ItemCount(sectionID string) int {
	switch sectionID {
	case SectionSummary:
		if d.Summary == "" {
			return 0
		}
		return 1
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionSkills:
		return len(d.Skills)
	case SectionLanguages:
		return len(d.Languages)
	case SectionHobbies:
		return len(d.Hobbies)
	case SectionSignature:
		if d.Signature == nil {
			return 0
		}
		return 1
	}
	return 0
}

// HasContent reports whether any section carries at least one item.
func (d *Document) HasContent() bool {
	for _, id := range DefaultOrder {
		if d.ItemCount(id) > 0 {
			return true
		}
	}
	return false
}

// NonEmptySections filters order down to the sections that actually carry
// items, preserving the given order.
func (d *Document) NonEmptySections(order []string) []string {
	out := make([]string, 0, len(order))
	for _, id := range order {
		if d.ItemCount(id) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a document to pretty-printed JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal deserializes JSON bytes to a Document. A missing ID is
// replaced with a fresh one so external files without identity remain
// loadable.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return &d, nil
}

// Read reads and deserializes a document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Unmarshal(data)
}
