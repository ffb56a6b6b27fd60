// Package pricing aggregates item prices and derives the quantized
// slider range the guessing control runs over. All slider arithmetic is
// done in integer minor currency units to avoid floating-point error.
package pricing

import (
	"fmt"
	"math"

	"github.com/benklinger/kamaole/internal/domain/model"
)

// Default slider tuning constants.
const (
	// defaultBaseStep is the finest slider granularity, in minor units.
	defaultBaseStep = 10
	// defaultMinSteps is the minimum number of discrete positions the
	// range should offer when it is wide enough to support them.
	defaultMinSteps = 20

	minorPerMajor = 100
)

// Totals carries the summed min/max/actual prices of an item's members,
// in major units.
type Totals struct {
	Min    float64
	Max    float64
	Actual float64
}

// Aggregate sums each member's min, max and actual price. A single
// product is the one-element case. Fails with ErrInvalidPrice when any
// summed component is not a finite number.
func Aggregate(members []model.Product) (Totals, error) {
	var t Totals
	for _, p := range members {
		t.Min += p.MinPrice
		t.Max += p.MaxPrice
		t.Actual += p.Price
	}
	for _, v := range []float64{t.Min, t.Max, t.Actual} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Totals{}, fmt.Errorf("%w: aggregate is not finite", ErrInvalidPrice)
		}
	}
	return t, nil
}

// ToMinorUnits converts a major-unit amount to integer minor units,
// rounding to the nearest unit.
func ToMinorUnits(amount float64) int {
	return int(math.Round(amount * minorPerMajor))
}

// Bounds is the derived slider range. Lower and Upper are exact
// multiples of Step, with Lower <= the item's minimum and Upper >= its
// maximum.
type Bounds struct {
	Step  int
	Lower int
	Upper int
}

// Midpoint returns the range midpoint rounded to an integer; this is
// the slider's initial settled value.
func (b Bounds) Midpoint() int {
	return int(math.Round(float64(b.Lower+b.Upper) / 2))
}

// Snap rounds v to the nearest multiple of Step and clamps it into the
// bounds.
func (b Bounds) Snap(v float64) int {
	step := b.Step
	if step <= 0 {
		step = defaultBaseStep
	}
	snapped := int(math.Round(v/float64(step))) * step
	return b.Clamp(snapped)
}

// Clamp forces v into [Lower, Upper].
func (b Bounds) Clamp(v int) int {
	if v < b.Lower {
		return b.Lower
	}
	if v > b.Upper {
		return b.Upper
	}
	return v
}

// Calculator derives slider bounds from a price range.
type Calculator struct {
	baseStep int
	minSteps int
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBaseStep sets the finest slider granularity in minor units.
func WithBaseStep(step int) Option {
	return func(c *Calculator) {
		if step > 0 {
			c.baseStep = step
		}
	}
}

// WithMinSteps sets the minimum number of slider positions to aim for.
func WithMinSteps(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.minSteps = n
		}
	}
}

// NewCalculator creates a Calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		baseStep: defaultBaseStep,
		minSteps: defaultMinSteps,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SliderBounds derives the quantized slider range for [minMinor,
// maxMinor]. The step starts at the base granularity and is widened when
// the range would otherwise offer fewer than the minimum step count; a
// zero-width range still yields a non-crashing single-position control.
func (c *Calculator) SliderBounds(minMinor, maxMinor int) Bounds {
	span := maxMinor - minMinor

	step := c.baseStep
	if float64(span)/float64(step) < float64(c.minSteps) {
		step = int(math.Ceil(float64(span)/float64(c.minSteps)/float64(c.baseStep))) * c.baseStep
		if step <= 0 {
			step = c.baseStep
		}
	}

	return Bounds{
		Step:  step,
		Lower: floorToMultiple(minMinor, step),
		Upper: ceilToMultiple(maxMinor, step),
	}
}

func floorToMultiple(v, step int) int {
	return int(math.Floor(float64(v)/float64(step))) * step
}

func ceilToMultiple(v, step int) int {
	return int(math.Ceil(float64(v)/float64(step))) * step
}
