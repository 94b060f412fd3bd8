// Package resources defines the declarative resource descriptors of the
// console: columns, forms, actions, and payload shaping for each backend
// collection. All control flow lives in the console engine; this package
// is configuration plus pure hooks.
package resources

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fincon/fincon/pkg/console"
)

const timestampLayout = "02/01/2006 15:04:05"

var (
	statusActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	statusDeleted  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	statusDisabled = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statusOther    = lipgloss.NewStyle().Bold(true)
)

// formatAt renders the "at" timestamp of an audit event map.
func formatAt(value any) string {
	event, ok := value.(map[string]any)
	if !ok {
		return "-"
	}
	at, ok := event["at"].(string)
	if !ok {
		return "-"
	}
	return formatTimestamp(at)
}

// formatBy renders the "by" actor of an audit event map as "id - name".
func formatBy(value any) string {
	event, ok := value.(map[string]any)
	if !ok {
		return "-"
	}
	by, ok := event["by"]
	if !ok {
		return "-"
	}
	return formatObjectLabel(by)
}

// formatTimestamp reformats an RFC 3339 timestamp for display. Values the
// backend sends in another shape pass through unchanged.
func formatTimestamp(value any) string {
	s, ok := value.(string)
	if !ok {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format(timestampLayout)
}

func formatStatus(value any) string {
	status, ok := value.(string)
	if !ok {
		return "-"
	}
	switch status {
	case "active":
		return statusActive.Render(status)
	case "deleted":
		return statusDeleted.Render(status)
	case "disabled":
		return statusDisabled.Render(status)
	default:
		return statusOther.Render(status)
	}
}

// formatObjectLabel renders an embedded object reference as "id - name".
func formatObjectLabel(value any) string {
	obj, ok := value.(map[string]any)
	if !ok || len(obj) == 0 {
		return "-"
	}
	return console.FormatObjectLabel(obj)
}

func formatCurrency(value any) string {
	code, ok := value.(string)
	if !ok {
		return "-"
	}
	name, ok := currencyNames[code]
	if !ok {
		return code
	}
	return code + " - " + name
}
