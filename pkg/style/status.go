package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status classifies a rendered line
type Status string

const (
	StatusSuccess Status = "success" // Completed successfully
	StatusError   Status = "error"   // Failed
	StatusQueue   Status = "queue"   // Planned, not performed yet
	StatusAlert   Status = "alert"   // Needs attention (conflicts etc.)
	StatusMissing Status = "missing" // Referenced file is absent
	StatusInfo    Status = "info"    // Informational
)

// KindVerbs defines past and future tense verbs per record kind
var KindVerbs = map[string]struct {
	Past   string
	Future string
}{
	"StaticMesh":   {Past: "imported to", Future: "will be imported to"},
	"SkeletalMesh": {Past: "imported to", Future: "will be imported to"},
	"Unknown":      {Past: "processed at", Future: "would be processed at"},
}

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	case StatusQueue:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusAlert:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusMissing:
		return pterm.NewStyle(pterm.FgRed)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ObjectLine is one record row within a direction block
type ObjectLine struct {
	Kind   string // Record kind tag (StaticMesh, SkeletalMesh)
	Name   string // Object name
	Status Status // Current status
	Target string // Destination package path or geometry file
	Detail string // Optional trailing detail (e.g. "placed", "replaced")
}

// DirectionStatus is one side of the bridge directory
type DirectionStatus struct {
	Label     string // "inbound" or "outbound"
	Present   bool
	Path      string
	Legacy    bool
	Operation string
	Problem   string // Decode error, when the manifest is unreadable
	Objects   []ObjectLine
}

// RenderObjectLine renders a single record row
func RenderObjectLine(line ObjectLine) string {
	kindName := fmt.Sprintf("%-13s", line.Kind)
	styledKind := StatusStyle(line.Status).Sprint(kindName)

	name := fmt.Sprintf("%-20s", line.Name)

	var statusMsg string
	if verbs, ok := KindVerbs[line.Kind]; ok {
		switch line.Status {
		case StatusSuccess:
			statusMsg = fmt.Sprintf("%s %s", verbs.Past, line.Target)
		case StatusQueue:
			statusMsg = fmt.Sprintf("%s %s", verbs.Future, line.Target)
		case StatusMissing:
			statusMsg = fmt.Sprintf("geometry file %s is missing", line.Target)
		case StatusError:
			statusMsg = fmt.Sprintf("failed at %s", line.Target)
		default:
			statusMsg = line.Target
		}
	} else {
		statusMsg = line.Target
	}
	if line.Detail != "" {
		statusMsg += fmt.Sprintf(" (%s)", line.Detail)
	}

	return fmt.Sprintf("    %s : %s : %s", styledKind, name, statusMsg)
}

// RenderDirectionStatus renders one direction block of a status report
func RenderDirectionStatus(ds DirectionStatus) string {
	var result strings.Builder

	header := ds.Label + ":"
	switch {
	case ds.Problem != "":
		header = StatusStyle(StatusAlert).Sprint(header)
	case !ds.Present:
		header = MutedStyle.Render(header)
	}
	result.WriteString(header + "\n")

	if !ds.Present {
		result.WriteString("    no manifest\n")
		return strings.TrimRight(result.String(), "\n")
	}

	meta := ds.Path
	if ds.Legacy {
		meta += " (legacy manifest name)"
	}
	if ds.Operation != "" {
		meta += " [" + ds.Operation + "]"
	}
	result.WriteString("    " + PathStyle.Render(meta) + "\n")

	if ds.Problem != "" {
		result.WriteString("    " + ErrorStyle.Render(ds.Problem) + "\n")
		return strings.TrimRight(result.String(), "\n")
	}

	for _, line := range ds.Objects {
		result.WriteString(RenderObjectLine(line) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// AggregateDirectionStatus determines the overall status of a direction
// based on its record rows
func AggregateDirectionStatus(objects []ObjectLine) Status {
	hasError := false
	allSuccess := true
	allQueue := true

	for _, o := range objects {
		switch o.Status {
		case StatusError, StatusMissing:
			hasError = true
			allSuccess = false
			allQueue = false
		case StatusQueue:
			allSuccess = false
		case StatusSuccess:
			allQueue = false
		}
	}

	if hasError {
		return StatusAlert
	} else if allSuccess && len(objects) > 0 {
		return StatusSuccess
	} else if allQueue && len(objects) > 0 {
		return StatusQueue
	}

	// Mixed state defaults to queue
	return StatusQueue
}
