package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/pipeline"
)

// renderCommand creates the render command for generating output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		configPath string
		formatsStr string
		sectionStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [resume.json]",
		Short: "Render a resume document to text, JSON, SVG, or PDF",
		Long: `Render a resume document to text, JSON, SVG, or PDF.

The render command composes the document into pages and renders every
requested format from the same page descriptors. Use 'compose' to inspect
the descriptors without rendering.

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
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&configPath, "config", "", "layout configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVar(&opts.Paper, "paper", opts.Paper, "paper size: A4 (default), Letter")
	cmd.Flags().StringVar(&opts.Layout, "layout", opts.Layout, "layout type: full-width (default), sidebar-left")
	cmd.Flags().IntVar(&opts.MaxPages, "max-pages", opts.MaxPages, "page bound, 0 for unbounded")
	cmd.Flags().BoolVar(&opts.Sidebar, "sidebar", opts.Sidebar, "render skills and languages in a sidebar")
	cmd.Flags().StringVar(&sectionStr, "sections", "", "section order override (comma-separated)")
	cmd.Flags().BoolVar(&opts.Measured, "measured", opts.Measured, "correct estimated heights with a measurement pass")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), txt, svg, pdf (comma-separated)")

	return cmd
}

// runRender loads the document, runs the full pipeline, and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}

	printSuccess("Render complete")
	printStats(result.Stats.PageCount, sectionCount(result.Pages), anyOverflowing(result.Pages), result.CacheInfo.RenderHit)
	if anyOverflowing(result.Pages) {
		printWarning("content exceeds the page budget; some pages overflow")
	}

	return nil
}

// writeArtifacts writes one file per rendered format. With a single format
// the output path is used as-is; with several, it is treated as a base path
// and the format extension is appended.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := basePath(output, input)

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
