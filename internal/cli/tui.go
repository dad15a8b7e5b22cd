package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/layout"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/measure"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/render/sink"
	"github.com/XeGteX/swiss-cv-builder-sub004/pkg/resume"
)

// Preview styles
var (
	previewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewStateStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// pagesMsg delivers a freshly published descriptor sequence to the model.
type pagesMsg []layout.Page

// =============================================================================
// PreviewModel - Interactive page preview
// =============================================================================

// PreviewModel is the bubbletea model for the interactive preview. It owns
// a measurement coordinator: every edit to the layout configuration feeds
// a new snapshot in, an estimation-based sequence paints immediately, and
// the measurement-corrected sequence replaces it once settled.
type PreviewModel struct {
	Doc    *resume.Document
	Config layout.Config

	coord   *measure.Coordinator
	updates chan []layout.Page

	Pages  []layout.Page
	Cursor int
	Height int
}

// NewPreviewModel creates a preview model around the given document.
func NewPreviewModel(doc *resume.Document, cfg layout.Config) PreviewModel {
	updates := make(chan []layout.Page, 16)
	coord := measure.NewCoordinator(measure.OffscreenSource())
	coord.Subscribe(func(pages []layout.Page) {
		select {
		case updates <- pages:
		default: // drop when the UI lags; the next publish supersedes anyway
		}
	})

	return PreviewModel{
		Doc:     doc,
		Config:  cfg,
		coord:   coord,
		updates: updates,
		Height:  40,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	m.coord.Update(m.Doc, m.Config)
	return m.waitForPages()
}

// waitForPages blocks on the coordinator's publish channel.
func (m PreviewModel) waitForPages() tea.Cmd {
	return func() tea.Msg {
		return pagesMsg(<-m.updates)
	}
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pagesMsg:
		m.Pages = msg
		if m.Cursor >= len(m.Pages) {
			m.Cursor = len(m.Pages) - 1
		}
		if m.Cursor < 0 {
			m.Cursor = 0
		}
		return m, m.waitForPages()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l":
			if m.Cursor < len(m.Pages)-1 {
				m.Cursor++
			}
		case "p":
			if m.Config.PaperSize == layout.PaperLetter {
				m.Config.PaperSize = layout.PaperA4
			} else {
				m.Config.PaperSize = layout.PaperLetter
			}
			m.coord.Update(m.Doc, m.Config)
		case "s":
			if m.Config.LayoutType == layout.LayoutSidebarLeft {
				m.Config.LayoutType = layout.LayoutFullWidth
				m.Config.HasSidebar = false
			} else {
				m.Config.LayoutType = layout.LayoutSidebarLeft
			}
			m.coord.Update(m.Doc, m.Config)
		case "+", "=":
			m.Config.MaxPages++
			m.coord.Update(m.Doc, m.Config)
		case "-":
			if m.Config.MaxPages > 0 {
				m.Config.MaxPages--
			}
			m.coord.Update(m.Doc, m.Config)
		}

	case tea.WindowSizeMsg:
		m.Height = msg.Height
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cvpage preview"))
	b.WriteString("  ")
	b.WriteString(previewStateStyle.Render(string(m.coord.State())))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("←/→ page  p paper  s sidebar  +/- page bound  q quit"))
	b.WriteString("\n\n")

	if len(m.Pages) == 0 {
		b.WriteString(StyleDim.Render("composing..."))
		return b.String()
	}

	b.WriteString(sink.RenderPageText(m.Pages[m.Cursor], m.Doc, m.Config))
	b.WriteString("\n")
	b.WriteString(previewStatusStyle.Render(m.statusLine()))

	return b.String()
}

// statusLine summarizes the current page and configuration.
func (m PreviewModel) statusLine() string {
	parts := []string{
		fmt.Sprintf("page %d/%d", m.Cursor+1, len(m.Pages)),
		m.Config.PaperSize,
		m.Config.LayoutType,
	}
	if m.Config.MaxPages > 0 {
		parts = append(parts, fmt.Sprintf("max %d", m.Config.MaxPages))
	}
	if m.Pages[m.Cursor].Overflowing {
		parts = append(parts, StyleWarning.Render("overflowing"))
	}
	return "  " + strings.Join(parts, previewHelpStyle.Render(" · "))
}
