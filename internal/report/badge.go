package report

import "fmt"

// Badge is a shields.io-compatible endpoint descriptor.
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// NewBadge builds a badge descriptor for the given average coverage.
func NewBadge(average float64) Badge {
	return Badge{
		SchemaVersion: 1,
		Label:         "coverage",
		Message:       fmt.Sprintf("%d%%", int(average)),
		Color:         BadgeColor(average),
	}
}

// BadgeColor maps an average coverage percentage to a shield color.
func BadgeColor(average float64) string {
	switch {
	case average >= 90:
		return "brightgreen"
	case average >= 80:
		return "yellow"
	case average >= 70:
		return "orange"
	default:
		return "red"
	}
}
