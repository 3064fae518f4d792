package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Renderer defines the interface for rendering various output types
type Renderer interface {
	RenderDirections(directions []DirectionStatus) string
	RenderError(err error) string
	RenderProgress(current, total int, message string) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderDirections renders both sides of a bridge directory report
func (r *TerminalRenderer) RenderDirections(directions []DirectionStatus) string {
	if len(directions) == 0 {
		return MutedStyle.Render("Nothing to report")
	}

	var result strings.Builder
	for _, ds := range directions {
		result.WriteString(RenderDirectionStatus(ds) + "\n\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	// Generic error; coded errors already carry their code in the message
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// RenderProgress renders a progress indicator
func (r *TerminalRenderer) RenderProgress(current, total int, message string) string {
	// Progress bar
	percentage := float64(current) / float64(total)
	barWidth := 20
	filled := int(percentage * float64(barWidth))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return fmt.Sprintf("%s [%s] %d/%d %s",
		ProgressIndicator,
		pterm.Info.MessageStyle.Sprint(bar),
		current,
		total,
		message)
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderDirections renders plain direction blocks
func (r *PlainRenderer) RenderDirections(directions []DirectionStatus) string {
	if len(directions) == 0 {
		return "Nothing to report"
	}

	var result strings.Builder
	for _, ds := range directions {
		result.WriteString(ds.Label + ":\n")
		if !ds.Present {
			result.WriteString("  no manifest\n")
			continue
		}
		result.WriteString("  " + ds.Path + "\n")
		for _, o := range ds.Objects {
			result.WriteString(fmt.Sprintf("  %s %s: %s\n", o.Kind, o.Name, o.Target))
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// RenderProgress renders plain progress
func (r *PlainRenderer) RenderProgress(current, total int, message string) string {
	return fmt.Sprintf("Progress: %d/%d - %s", current, total, message)
}
