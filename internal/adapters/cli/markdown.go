package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const markdownWrapWidth = 100

// renderMarkdown renders markdown for the terminal. An empty or "auto"
// style follows the terminal background.
func renderMarkdown(markdown, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(markdownWrapWidth)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
