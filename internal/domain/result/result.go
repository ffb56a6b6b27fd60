// Package result compares a confirmed guess against the actual price and
// computes the cross-day navigation targets shown with the outcome.
package result

import (
	"fmt"

	"github.com/benklinger/kamaole/internal/domain/datekey"
	"github.com/benklinger/kamaole/internal/domain/model"
	"github.com/benklinger/kamaole/internal/domain/pricing"
	"github.com/benklinger/kamaole/internal/domain/resolve"
)

const minorPerMajor = 100

// Verdict classifies a guess against the actual price.
type Verdict string

// Verdicts. Under means the guess was lower than the actual price.
const (
	VerdictUnder Verdict = "under"
	VerdictOver  Verdict = "over"
	VerdictExact Verdict = "exact"
)

// Outcome is the evaluated result of one round.
type Outcome struct {
	Delta   int
	Verdict Verdict
}

// Evaluate compares the actual price against the guessed one, both in
// minor units. Delta is actual minus guess.
func Evaluate(actualMinor, guessedMinor int) Outcome {
	delta := actualMinor - guessedMinor
	switch {
	case delta == 0:
		return Outcome{Delta: 0, Verdict: VerdictExact}
	case delta > 0:
		return Outcome{Delta: delta, Verdict: VerdictUnder}
	default:
		return Outcome{Delta: delta, Verdict: VerdictOver}
	}
}

// FormatMinor renders a non-negative minor-unit amount as
// "<major>.<minor>" with the minor part zero-padded to two digits.
// Callers take the absolute value before formatting negative deltas.
func FormatMinor(amount int) string {
	return fmt.Sprintf("%d.%02d", amount/minorPerMajor, amount%minorPerMajor)
}

// MemberPrice is one line of a bundle's price breakdown.
type MemberPrice struct {
	Name       string
	PriceMinor int
}

// Breakdown lists each member's actual price in minor units, in member
// order.
func Breakdown(members []model.Product) []MemberPrice {
	lines := make([]MemberPrice, len(members))
	for i, p := range members {
		lines[i] = MemberPrice{
			Name:       p.Name,
			PriceMinor: pricing.ToMinorUnits(p.Price),
		}
	}
	return lines
}

// NavTarget is a follow-up game suggestion.
type NavTarget struct {
	Date  string
	Kind  model.ItemKind
	ID    int
	Title string
}

// YesterdayTarget resolves "yesterday's version of today's item": the
// same kind on the day before dateKey, preferring the same id and
// falling back to the first of that kind. Absent when yesterday has no
// record or no items of the kind.
func YesterdayTarget(r *resolve.Resolver, dateKey string, kind model.ItemKind, preferredID int) (NavTarget, bool) {
	day, err := datekey.Parse(dateKey)
	if err != nil {
		return NavTarget{}, false
	}
	yesterdayKey := datekey.Format(datekey.AddDays(day, -1))
	item, ok := r.ResolveWithFallback(yesterdayKey, kind, preferredID)
	if !ok {
		return NavTarget{}, false
	}
	return NavTarget{
		Date:  yesterdayKey,
		Kind:  item.Kind,
		ID:    item.ID,
		Title: item.DisplayName,
	}, true
}

// ComplementaryTarget resolves the first item of the other kind on
// todayKey, offering a second game type for the current day.
func ComplementaryTarget(r *resolve.Resolver, todayKey string, kind model.ItemKind) (NavTarget, bool) {
	item, ok := r.FirstOfKind(todayKey, resolve.ComplementaryKind(kind))
	if !ok {
		return NavTarget{}, false
	}
	return NavTarget{
		Date:  todayKey,
		Kind:  item.Kind,
		ID:    item.ID,
		Title: item.DisplayName,
	}, true
}
