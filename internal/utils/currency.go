package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptPrinter = message.NewPrinter(language.Portuguese)

// FormatKz formats an amount of kwanzas with Portuguese digit grouping,
// e.g. 15000 -> "15.000 Kz".
func FormatKz(amount int64) string {
	return ptPrinter.Sprintf("%d Kz", amount)
}
