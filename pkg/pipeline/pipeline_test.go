package pipeline

import (
	"testing"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
)

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should validate: %v", err)
	}
	if opts.Paper != layout.PaperA4 || opts.Layout != layout.LayoutFullWidth {
		t.Errorf("layout defaults not applied: %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("format default not applied: %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("logger default not applied")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second validation should be a no-op: %v", err)
	}
}

func TestOptionsRejectsInvalidInput(t *testing.T) {
	bad := Options{Paper: "A5"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid paper must be rejected")
	}

	bad = Options{Formats: []string{"docx"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format must be rejected")
	}
}

func TestOptionsSidebarLayoutImpliesSidebar(t *testing.T) {
	opts := Options{Layout: layout.LayoutSidebarLeft}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !opts.Sidebar {
		t.Error("sidebar-left layout must force the sidebar flag")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatText, FormatJSON, FormatSVG, FormatPDF}); err != nil {
		t.Errorf("all known formats should validate: %v", err)
	}
	if err := ValidateFormat("png"); err == nil {
		t.Error("unknown format must be rejected")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	opts := Options{Paper: "A4", MaxPages: 2, Measured: true}
	ko := opts.LayoutKeyOpts()
	if ko.PaperSize != "A4" || ko.MaxPages != 2 || !ko.Measured {
		t.Errorf("key opts = %+v", ko)
	}
}
