package simulate

import (
	"fmt"
	"log"

	"github.com/benklinger/kamaole/internal/domain/result"
)

// verifyOutcome checks the server's evaluation against a local one.
func verifyOutcome(guessMinor int, view resultView) error {
	if view.GuessMinor != guessMinor {
		return fmt.Errorf("server echoed guess %d, sent %d", view.GuessMinor, guessMinor)
	}

	want := result.Evaluate(view.ActualMinor, guessMinor)
	if view.Delta != want.Delta {
		return fmt.Errorf("delta mismatch: server %d, local %d", view.Delta, want.Delta)
	}
	if view.Verdict != string(want.Verdict) {
		return fmt.Errorf("verdict mismatch: server %q, local %q", view.Verdict, want.Verdict)
	}

	if got, wantFmt := view.FormattedActual, "₪"+result.FormatMinor(view.ActualMinor); got != wantFmt {
		return fmt.Errorf("formatted price mismatch: server %q, local %q", got, wantFmt)
	}

	if view.Message == "" {
		return fmt.Errorf("result carries no message")
	}
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var roundsPerSecond float64
	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.RoundsPlayed) / stats.Duration.Seconds()
	}

	log.Printf(`✅ Simulation completed:
   Rounds played: %d
   Rounds failed: %d
   Verdicts: under=%d over=%d exact=%d
   Gestures: drags=%d clicks=%d swipes=%d
   Duration: %s (%.1f rounds/s)
`, stats.RoundsPlayed, stats.RoundsFailed,
		stats.VerdictsUnder, stats.VerdictsOver, stats.VerdictsExact,
		stats.Drags, stats.Clicks, stats.Swipes,
		stats.Duration, roundsPerSecond)
}
