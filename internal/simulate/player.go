package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"

	"github.com/benklinger/kamaole/internal/domain/guess"
	"github.com/benklinger/kamaole/internal/domain/pricing"
)

// Gesture geometry for the synthetic player.
const (
	sliderWidth   = 300.0
	swipeDistance = -80.0
)

// roundOutcome carries what one simulated round produced.
type roundOutcome struct {
	gesture string // "drag" or "click"
	swipes  int
	guess   int
	view    resultView
}

// playRound fetches one game, drives the slider with a synthetic pointer
// gesture, confirms a guess and retrieves the evaluated result.
func playRound(ctx context.Context, client *HTTPClient, cfg *Config, opt navOption, rng *rand.Rand) (roundOutcome, error) {
	var game gameView
	gameURL := fmt.Sprintf("%s/api/game?date=%s&type=%s&id=%d",
		cfg.BaseURL, url.QueryEscape(opt.Date), opt.Type, opt.ID)
	if err := client.getJSON(ctx, gameURL, &game); err != nil {
		return roundOutcome{}, fmt.Errorf("game fetch failed: %w", err)
	}

	bounds := pricing.Bounds{
		Step:  game.Slider.Step,
		Lower: game.Slider.Lower,
		Upper: game.Slider.Upper,
	}

	var confirmed int
	ctl := guess.NewController(bounds,
		guess.WithWidth(sliderWidth),
		guess.WithScheduler(guess.ImmediateScheduler{}),
		guess.WithConfirmHandler(func(v int) { confirmed = v }))

	// The page ramps the slider to the midpoint before interaction.
	ctl.Ramp(ctx)
	if ctl.Value() != bounds.Midpoint() {
		return roundOutcome{}, fmt.Errorf("ramp settled at %d, want midpoint %d", ctl.Value(), bounds.Midpoint())
	}

	// Flip through the member carousel like an undecided player.
	swipes := 0
	if len(game.Members) > 1 {
		carousel := guess.NewCarousel(len(game.Members))
		swipes = rng.Intn(len(game.Members) + 1)
		for i := 0; i < swipes; i++ {
			if _, ok := carousel.Swipe(swipeDistance); !ok {
				return roundOutcome{}, fmt.Errorf("swipe of %.0fpx was ignored", swipeDistance)
			}
		}
	}

	gesture := "click"
	if rng.Intn(2) == 0 {
		gesture = "drag"
		if err := dragGesture(ctl, rng); err != nil {
			return roundOutcome{}, err
		}
	} else if err := clickGesture(ctl); err != nil {
		return roundOutcome{}, err
	}

	guessMinor := confirmed
	if guessMinor < bounds.Lower || guessMinor > bounds.Upper {
		return roundOutcome{}, fmt.Errorf("confirmed guess %d outside bounds [%d,%d]", guessMinor, bounds.Lower, bounds.Upper)
	}

	var view resultView
	resultURL := fmt.Sprintf("%s/api/result?date=%s&type=%s&id=%d&guessPrice=%d",
		cfg.BaseURL, url.QueryEscape(opt.Date), opt.Type, opt.ID, guessMinor)
	if err := client.getJSON(ctx, resultURL, &view); err != nil {
		return roundOutcome{}, fmt.Errorf("result fetch failed: %w", err)
	}

	return roundOutcome{gesture: gesture, swipes: swipes, guess: guessMinor, view: view}, nil
}

// dragGesture drags the knob toward a random position, releases, then
// taps in place to confirm the settled value.
func dragGesture(ctl *guess.Controller, rng *rand.Rand) error {
	// Keep the target clear of the click threshold so the release reads
	// as a drag.
	target := rng.Float64() * sliderWidth
	for math.Abs(target-sliderWidth/2) < 20 {
		target = rng.Float64() * sliderWidth
	}

	ctl.PointerDown(sliderWidth / 2)
	steps := 3 + rng.Intn(5)
	for i := 1; i <= steps; i++ {
		x := sliderWidth/2 + (target-sliderWidth/2)*float64(i)/float64(steps)
		ctl.PointerMove(x)
	}
	if ctl.PointerUp(target) {
		return fmt.Errorf("drag release confirmed a guess")
	}

	if _, ok := ctl.Confirm(); !ok {
		return fmt.Errorf("confirm after settled drag was rejected")
	}
	return nil
}

// clickGesture taps the knob without moving it, confirming the current
// value.
func clickGesture(ctl *guess.Controller) error {
	ctl.PointerDown(sliderWidth / 2)
	if !ctl.PointerUp(sliderWidth/2 + 1) {
		return fmt.Errorf("stationary tap did not confirm")
	}
	return nil
}
