package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/cache"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/pipeline"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// composeCommand creates the compose command for splitting documents into pages.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		output     string
		configPath string
		sectionStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compose [resume.json]",
		Short: "Split a resume document into a page descriptor sequence",
		Long: `Split a resume document into a page descriptor sequence.

The compose command takes a resume.json file and computes which items of
which sections land on which page. The output is a pages.json file that
can be rendered to text, SVG, or PDF using the 'render' command. Every
output format consumes the same descriptors, so preview and export always
agree on pagination.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := layout.LoadConfig(configPath)
				if err != nil {
					return err
				}
				applyConfig(&opts, cfg)
			}
			if s := parseSections(sectionStr); len(s) > 0 {
				opts.SectionOrder = s
			}
			return c.runCompose(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.pages.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "layout configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVar(&opts.Paper, "paper", opts.Paper, "paper size: A4 (default), Letter")
	cmd.Flags().StringVar(&opts.Layout, "layout", opts.Layout, "layout type: full-width (default), sidebar-left")
	cmd.Flags().IntVar(&opts.MaxPages, "max-pages", opts.MaxPages, "page bound, 0 for unbounded")
	cmd.Flags().BoolVar(&opts.Sidebar, "sidebar", opts.Sidebar, "render skills and languages in a sidebar")
	cmd.Flags().StringVar(&sectionStr, "sections", "", "section order override (comma-separated)")
	cmd.Flags().BoolVar(&opts.Measured, "measured", opts.Measured, "correct estimated heights with a measurement pass")

	return cmd
}

// runCompose loads the document, composes the pages, and writes output.
func (c *CLI) runCompose(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := loadDocument(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	docData, err := resume.Marshal(doc)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Composing pages...")
	spinner.Start()

	pages, cacheHit, err := runner.ComposeWithCacheInfo(ctx, doc, cache.Hash(docData), opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return fmt.Errorf("compose: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".pages.json"
	}

	data, err := layout.MarshalPages(pages)
	if err != nil {
		return fmt.Errorf("serialize pages: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Composition complete")
	printFile(outputPath)
	printStats(len(pages), sectionCount(pages), anyOverflowing(pages), cacheHit)
	printNewline()
	printNextStep("Render", "cvpage render "+input)

	return nil
}

// applyConfig copies a loaded layout configuration onto pipeline options.
func applyConfig(opts *pipeline.Options, cfg layout.Config) {
	opts.Paper = cfg.PaperSize
	opts.Layout = cfg.LayoutType
	opts.MaxPages = cfg.MaxPages
	opts.Sidebar = cfg.HasSidebar
	opts.SectionOrder = cfg.SectionOrder
}

// sectionCount counts distinct sections placed across the sequence.
func sectionCount(pages []layout.Page) int {
	seen := map[string]bool{}
	for _, p := range pages {
		for _, s := range p.Sections {
			seen[s.SectionID] = true
		}
	}
	return len(seen)
}

// anyOverflowing reports whether any page carries the overflow flag.
func anyOverflowing(pages []layout.Page) bool {
	for _, p := range pages {
		if p.Overflowing {
			return true
		}
	}
	return false
}
