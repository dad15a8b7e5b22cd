package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/pipeline"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/render/sink"
)

const serveShutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for the local development server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve [resume.json]",
		Short: "Serve composed pages over HTTP for local development",
		Long: `Serve composed pages over HTTP for local development.

The server re-reads the document on every request, so edits to the input
file show up on reload. Endpoints:

  GET /healthz              liveness probe
  GET /api/pages            page descriptor sequence as JSON
  GET /api/pages/{n}/svg    a single page as SVG
  GET /resume.svg           all pages as one SVG
  GET /resume.pdf           the export PDF
  GET /resume.txt           the plain-text rendering

Query parameters paper, layout, max_pages, sidebar, and measured override
the configured defaults per request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := layout.LoadConfig(configPath)
				if err != nil {
					return err
				}
				applyConfig(&opts, cfg)
			}
			return c.runServe(cmd.Context(), args[0], opts, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "layout configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Paper, "paper", opts.Paper, "paper size: A4 (default), Letter")
	cmd.Flags().StringVar(&opts.Layout, "layout", opts.Layout, "layout type: full-width (default), sidebar-left")
	cmd.Flags().IntVar(&opts.MaxPages, "max-pages", opts.MaxPages, "page bound, 0 for unbounded")
	cmd.Flags().BoolVar(&opts.Measured, "measured", opts.Measured, "correct estimated heights with a measurement pass")

	return cmd
}

// runServe starts the development server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, opts pipeline.Options, addr string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.newRouter(runner, input, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	printSuccess("Serving %s", input)
	printDetail("Address: http://localhost%s", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newRouter builds the chi router for the development server.
func (c *CLI) newRouter(runner *pipeline.Runner, input string, defaults pipeline.Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/pages", c.handleFormat(runner, input, defaults, pipeline.FormatJSON, "application/json"))
	r.Get("/resume.svg", c.handleFormat(runner, input, defaults, pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/resume.pdf", c.handleFormat(runner, input, defaults, pipeline.FormatPDF, "application/pdf"))
	r.Get("/resume.txt", c.handleFormat(runner, input, defaults, pipeline.FormatText, "text/plain; charset=utf-8"))
	r.Get("/api/pages/{index}/svg", c.handlePageSVG(runner, input, defaults))

	return r
}

// logRequests logs each request with method, path, and duration, and
// attaches the CLI logger to the request context.
func (c *CLI) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		c.Logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// handleFormat serves one rendered format from a fresh pipeline run.
func (c *CLI) handleFormat(runner *pipeline.Runner, input string, defaults pipeline.Options, format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		opts := requestOptions(req, defaults)
		opts.Formats = []string{format}

		result, err := c.execute(req.Context(), runner, input, opts)
		if err != nil {
			httpError(w, req, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}

// handlePageSVG serves a single page as SVG.
func (c *CLI) handlePageSVG(runner *pipeline.Runner, input string, defaults pipeline.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(req, "index"))
		if err != nil || index < 0 {
			http.Error(w, "invalid page index", http.StatusBadRequest)
			return
		}

		opts := requestOptions(req, defaults)

		doc, err := loadDocument(input)
		if err != nil {
			httpError(w, req, err)
			return
		}
		pages, err := runner.Compose(req.Context(), doc, opts)
		if err != nil {
			httpError(w, req, err)
			return
		}
		if index >= len(pages) {
			http.Error(w, "page index out of range", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(sink.RenderSVG(pages, doc, opts.Config(), sink.WithSVGPage(index)))
	}
}

// execute re-reads the document and runs the pipeline.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	doc, err := loadDocument(input)
	if err != nil {
		return nil, err
	}
	return runner.Execute(ctx, doc, opts)
}

// requestOptions overlays query parameters onto the configured defaults.
// It builds fresh options so the overlay is validated again downstream.
func requestOptions(req *http.Request, defaults pipeline.Options) pipeline.Options {
	opts := pipeline.Options{
		Paper:        defaults.Paper,
		Layout:       defaults.Layout,
		MaxPages:     defaults.MaxPages,
		Sidebar:      defaults.Sidebar,
		SectionOrder: defaults.SectionOrder,
		Measured:     defaults.Measured,
		Logger:       defaults.Logger,
	}
	q := req.URL.Query()

	if v := q.Get("paper"); v != "" {
		opts.Paper = v
	}
	if v := q.Get("layout"); v != "" {
		opts.Layout = v
	}
	if v := q.Get("max_pages"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.MaxPages = n
		}
	}
	if v := q.Get("sidebar"); v != "" {
		opts.Sidebar = v == "true" || v == "1"
	}
	if v := q.Get("measured"); v != "" {
		opts.Measured = v == "true" || v == "1"
	}
	return opts
}

// httpError maps pipeline failures to HTTP responses.
func httpError(w http.ResponseWriter, req *http.Request, err error) {
	loggerFromContext(req.Context()).Error("request failed", "path", req.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
