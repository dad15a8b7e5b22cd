// Package cli implements the cvpage command-line interface.
//
// This package provides commands for composing resume documents into page
// descriptor sequences, rendering them as text, JSON, SVG, or PDF,
// previewing them interactively in the terminal, and serving them over
// HTTP for local development. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compose: Split a resume document into a page descriptor sequence
//   - render: Generate text, JSON, SVG, or PDF output from a document
//   - preview: Interactive terminal preview with live page navigation
//   - serve: Local development server exposing descriptors and pages
//   - cache: Manage the local layout and artifact cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/buildinfo"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/cache"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/pipeline"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cvpage"

	// redisAddrEnv selects a Redis cache backend when set.
	redisAddrEnv = "CVPAGE_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "cvpage",
		Short:        "Cvpage splits resume documents into print-ready pages",
		Long:         `Cvpage is a CLI tool for composing resume documents into paginated page descriptors and rendering them as text, JSON, SVG, or PDF, with an interactive terminal preview.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache picks the cache backend: Redis when configured through the
// environment, a file cache otherwise, and a null cache when disabled or
// when no usable directory exists.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(redisAddrEnv); addr != "" {
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{Addr: addr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, falling back to file cache", "addr", addr, "err", err)
		} else {
			return rc, nil
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cvpage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadDocument reads a resume document from a JSON file.
func loadDocument(path string) (*resume.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return resume.Read(f)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// parseSections parses a comma-separated section order override.
func parseSections(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
