package layout

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Paper sizes.
const (
	PaperA4     = "A4"
	PaperLetter = "Letter"
)

// Layout types.
const (
	LayoutFullWidth   = "full-width"
	LayoutSidebarLeft = "sidebar-left"
)

// Page heights in CSS pixels at 96 DPI.
const (
	heightA4     = 1122.0 // 297mm
	heightLetter = 1056.0 // 11in
)

// Fixed chrome heights, in pixels. The full header appears only on page
// zero; continuation pages carry the smaller mini header.
const (
	FullHeaderHeight = 180.0
	MiniHeaderHeight = 60.0
	PageMargins      = 48.0 // combined top and bottom body margins

	// SectionHeaderHeight is reserved once per section on the page that
	// carries the section's first item.
	SectionHeaderHeight = 36.0
)

// ValidPapers is the set of supported paper sizes.
var ValidPapers = map[string]bool{
	PaperA4:     true,
	PaperLetter: true,
}

// ValidLayouts is the set of supported layout types.
var ValidLayouts = map[string]bool{
	LayoutFullWidth:   true,
	LayoutSidebarLeft: true,
}

// =============================================================================
// Config
// =============================================================================

// Config is the layout configuration for one composition pass. It is
// supplied by the surrounding application (regional defaults or user
// choice) and can be loaded from a TOML file.
type Config struct {
	PaperSize  string `json:"paper_size" toml:"paper_size"`
	LayoutType string `json:"layout_type,omitempty" toml:"layout_type"`
	MaxPages   int    `json:"max_pages,omitempty" toml:"max_pages"`
	HasSidebar bool   `json:"has_sidebar,omitempty" toml:"has_sidebar"`

	// SectionOrder overrides the main-flow section order when non-empty.
	SectionOrder []string `json:"section_order,omitempty" toml:"section_order"`
}

// DefaultConfig returns the configuration used when nothing is supplied:
// A4, full width, no page bound.
func DefaultConfig() Config {
	return Config{
		PaperSize:  PaperA4,
		LayoutType: LayoutFullWidth,
	}
}

// ValidateAndSetDefaults checks fields and applies defaults. This method
// is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.PaperSize == "" {
		c.PaperSize = PaperA4
	}
	if c.LayoutType == "" {
		c.LayoutType = LayoutFullWidth
	}
	if !ValidPapers[c.PaperSize] {
		return fmt.Errorf("invalid paper size: %q (must be one of: A4, Letter)", c.PaperSize)
	}
	if !ValidLayouts[c.LayoutType] {
		return fmt.Errorf("invalid layout type: %q (must be one of: full-width, sidebar-left)", c.LayoutType)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max_pages must be >= 0, got %d", c.MaxPages)
	}
	if c.LayoutType == LayoutSidebarLeft {
		c.HasSidebar = true
	}
	return nil
}

// PageHeight returns the full pixel height of the configured paper.
func (c Config) PageHeight() float64 {
	if c.PaperSize == PaperLetter {
		return heightLetter
	}
	return heightA4
}

// BodyHeight returns the usable main-flow height of the given page:
// paper height minus margins and the page's header.
func (c Config) BodyHeight(pageIndex int) float64 {
	header := MiniHeaderHeight
	if pageIndex == 0 {
		header = FullHeaderHeight
	}
	return c.PageHeight() - header - PageMargins
}

// LoadConfig reads a layout configuration from a TOML file and validates it.
func LoadConfig(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("load layout config %s: %w", path, err)
	}
	if err := c.ValidateAndSetDefaults(); err != nil {
		return Config{}, err
	}
	return c, nil
}
