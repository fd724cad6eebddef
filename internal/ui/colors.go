package ui

import (
	"fmt"
	"strings"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Missing is shown in place of a field no extraction tier produced
const Missing = "-"

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

// Field renders an aligned "label  value" line; empty values print as Missing
func Field(label, value string, width int) string {
	if value == "" {
		value = ColorDim + Missing + ColorReset
	}
	pad := width - len(label)
	if pad < 1 {
		pad = 1
	}
	return fmt.Sprintf("%s%s%s%s%s", ColorCyan, label, ColorReset, strings.Repeat(" ", pad), value)
}
