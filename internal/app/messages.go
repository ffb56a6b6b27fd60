package service

import (
	"fmt"

	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/result"
)

// User-facing Hebrew strings. The game is RTL Hebrew; these mirror the
// page copy exactly.
const (
	currencySign = "₪"

	msgExactGuess  = "הניחוש שלך היה נכון!"
	msgNoYesterday = "אין משחק לאתמול."

	productSubtitleFormat = "המוצר של %s, %s"
	basketSubtitleFormat  = "הסל של %s, %s"
	mealSubtitleFormat    = "הארוחה של %s, %s"

	guessLowFormat    = "הניחוש שלך היה נמוך ב-%s"
	guessHighFormat   = "הניחוש שלך היה גבוה ב-%s"
	actualPriceFormat = "זה עולה %s"
	footerFormat      = "המחיר נכון ל%s, ב%s"
)

// formatPrice renders a non-negative minor-unit amount with the
// currency sign, e.g. "₪5.90".
func formatPrice(minor int) string {
	return currencySign + result.FormatMinor(minor)
}

// itemSubtitle composes the "<kind> of <day>, <date>" line. The bundle
// label follows the configured display scheme.
func itemSubtitle(scheme string, kind model.ItemKind, dayName, dateText string) string {
	format := productSubtitleFormat
	if kind == model.KindBundle {
		format = basketSubtitleFormat
		if scheme == "meal" {
			format = mealSubtitleFormat
		}
	}
	return fmt.Sprintf(format, dayName, dateText)
}

// verdictMessage composes the outcome line for an evaluated guess.
func verdictMessage(o result.Outcome) string {
	switch o.Verdict {
	case result.VerdictUnder:
		return fmt.Sprintf(guessLowFormat, formatPrice(o.Delta))
	case result.VerdictOver:
		return fmt.Sprintf(guessHighFormat, formatPrice(-o.Delta))
	default:
		return msgExactGuess
	}
}

// footerText composes the footer line from the relative-date phrase and
// the price-sampling location.
func footerText(phrase, location string) string {
	return fmt.Sprintf(footerFormat, phrase, location)
}

// actualPriceTitle composes the "it costs X" headline.
func actualPriceTitle(actualMinor int) string {
	return fmt.Sprintf(actualPriceFormat, formatPrice(actualMinor))
}
