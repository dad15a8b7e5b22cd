package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
)

// previewCommand creates the preview command for interactive page browsing.
func (c *CLI) previewCommand() *cobra.Command {
	var configPath string
	cfg := layout.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "preview [resume.json]",
		Short: "Preview composed pages interactively in the terminal",
		Long: `Preview composed pages interactively in the terminal.

The preview shows one page at a time and recomposes live when the paper
size, layout type, or page bound changes. An estimation-based sequence
paints immediately on every change; once the measurement pass settles,
the corrected sequence replaces it in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := layout.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return c.runPreview(args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "layout configuration file (TOML)")
	cmd.Flags().StringVar(&cfg.PaperSize, "paper", cfg.PaperSize, "paper size: A4 (default), Letter")
	cmd.Flags().StringVar(&cfg.LayoutType, "layout", cfg.LayoutType, "layout type: full-width (default), sidebar-left")
	cmd.Flags().IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "page bound, 0 for unbounded")

	return cmd
}

// runPreview loads the document and runs the bubbletea program.
func (c *CLI) runPreview(input string, cfg layout.Config) error {
	doc, err := loadDocument(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return err
	}

	model := NewPreviewModel(doc, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
