package weather

import (
	"fmt"
	"strings"
)

// Units selects how temperatures are shown to the user.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits parses a units setting. An empty value means Metric.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "celsius", "c":
		return Metric, nil
	case "imperial", "fahrenheit", "f":
		return Imperial, nil
	default:
		return "", fmt.Errorf("unsupported units: %s (expected metric or imperial)", s)
	}
}
