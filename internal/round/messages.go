package round

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgWarning   = "You have %d seconds"
	msgCountdown = "%d SEC"
)

// newPrinter builds the English printer for spoken and displayed lines.
func newPrinter() *message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.Set(language.English, msgWarning, plural.Selectf(1, "%d",
		"one", "You have %d second",
		"other", "You have %d seconds",
	))
	return message.NewPrinter(language.English, message.Catalog(b))
}
