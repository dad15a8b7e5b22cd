// Package layout computes how a resume document splits across fixed-height
// pages.
//
// The package has two halves. The height model (heights.go) maps each
// section of a document to an ordered list of per-item pixel heights using
// heuristic constants; it is pure and runs without any rendered output.
// The compositor (compose.go) consumes those heights and produces an
// ordered sequence of Page descriptors: which items of which sections land
// on which page, which header each page carries, and whether a page
// overflows its budget.
//
// The Page descriptor sequence is the single artifact both render paths
// consume. The interactive preview and the document export must map the
// same sequence to visually identical output, so a new sequence is always
// built from scratch and never patched.
package layout

import "encoding/json"

// =============================================================================
// Header modes
// =============================================================================

// HeaderMode selects which page header a page carries.
type HeaderMode string

// Header modes. The full header appears on page zero only; every
// continuation page carries the mini header.
const (
	HeaderFull HeaderMode = "full"
	HeaderMini HeaderMode = "mini"
	HeaderNone HeaderMode = "none"
)

// =============================================================================
// Item ranges
// =============================================================================

// ItemRange is a contiguous, inclusive [Start,End] slice of a section's
// item indexes. All reports whether the whole section is placed as a unit.
type ItemRange struct {
	All   bool `json:"all,omitempty"`
	Start int  `json:"start,omitempty"`
	End   int  `json:"end,omitempty"`
}

// WholeSection is the range covering an entire section.
var WholeSection = ItemRange{All: true}

// Span builds an explicit [start,end] range.
func Span(start, end int) ItemRange {
	return ItemRange{Start: start, End: end}
}

// Len returns the number of items in the range given the section's total
// item count.
func (r ItemRange) Len(itemCount int) int {
	if r.All {
		return itemCount
	}
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Bounds resolves the range to concrete [start,end] indexes.
func (r ItemRange) Bounds(itemCount int) (int, int) {
	if r.All {
		return 0, itemCount - 1
	}
	return r.Start, r.End
}

// Contains reports whether the item index falls inside the range.
func (r ItemRange) Contains(idx, itemCount int) bool {
	start, end := r.Bounds(itemCount)
	return idx >= start && idx <= end
}

// =============================================================================
// Page descriptors
// =============================================================================

// SectionContent assigns a slice of one section's items to a page.
// ShowHeader is true only on the page carrying the section's first item;
// continuation pages of a split section do not repeat the title.
type SectionContent struct {
	SectionID  string    `json:"section_id"`
	Items      ItemRange `json:"items"`
	ShowHeader bool      `json:"show_header,omitempty"`
}

// Page describes one physical page of the composed document. Page values
// are immutable once published: recomposition produces a brand-new slice
// rather than patching descriptors in place.
type Page struct {
	Index          int              `json:"index"`
	Header         HeaderMode       `json:"header"`
	Sections       []SectionContent `json:"sections"`
	SidebarExtends bool             `json:"sidebar_extends,omitempty"`
	Overflowing    bool             `json:"overflowing,omitempty"`
}

// MarshalPages serializes a descriptor sequence to JSON. This is the
// canonical cache format for composed layouts.
func MarshalPages(pages []Page) ([]byte, error) {
	return json.Marshal(pages)
}

// UnmarshalPages deserializes a cached descriptor sequence.
func UnmarshalPages(data []byte) ([]Page, error) {
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}
