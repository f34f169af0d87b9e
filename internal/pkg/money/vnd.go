package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatVND renders a whole-dong amount with Vietnamese digit grouping, e.g. "1.400.000 ₫".
func FormatVND(amount int64) string {
	return printer.Sprintf("%d ₫", amount)
}
