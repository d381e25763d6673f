package commands

import (
	"math"
	"strconv"

	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/gridvalidator"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// scoreColor picks green for passing scores, yellow for borderline and red below that
func scoreColor(score int, green, yellow, red string) string {
	switch {
	case score >= 80:
		return green
	case score >= 60:
		return yellow
	default:
		return red
	}
}

// gridSeverityColor colors grid issues by severity
func gridSeverityColor(severity gridvalidator.Severity) string {
	switch severity {
	case gridvalidator.SeverityCritical:
		return colorRed
	case gridvalidator.SeverityWarning:
		return colorYellow
	default:
		return colorDim
	}
}

// complianceSeverityColor colors compliance violations by severity
func complianceSeverityColor(severity compliance.Severity) string {
	if severity == compliance.SeverityCritical {
		return colorRed
	}
	return colorYellow
}

// issueTimeRange renders "HH:MM-HH:MM" for issues that carry times
func issueTimeRange(issue gridvalidator.Issue) string {
	if issue.StartTime == "" {
		return ""
	}
	return issue.StartTime + "-" + issue.EndTime
}

// formatHours renders hours without trailing zeros: 8 -> "8h", 7.5 -> "7.5h"
func formatHours(hours float64) string {
	return strconv.FormatFloat(math.Round(hours*100)/100, 'f', -1, 64) + "h"
}
