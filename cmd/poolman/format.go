package main

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// formatHashrate renders a raw hashes-per-second value with thousands
// separators, e.g. "12,345 H/s".
func formatHashrate(rate int64) string {
	return numberPrinter.Sprintf("%d H/s", rate)
}
