// Package ui holds pure rendering helpers for the interactive fleet view.
// Nothing here touches the terminal or repository state directly, so every
// renderer is testable with plain strings.
package ui

import "strings"

// Styles maps row roles to styling functions supplied by the caller.
type Styles struct {
	Header   func(string) string
	Normal   func(string) string
	Selected func(string) string
	Failed   func(string) string
}

// PadOrTrim fits s into exactly width cells.
func PadOrTrim(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
