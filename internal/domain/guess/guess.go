// Package guess implements the state machine behind the price-selection
// control: pointer tracking, drag-versus-click disambiguation, value
// snapping, and the confirm action that ends a round. The logical
// transitions are synchronous; animation is delegated to a pluggable
// scheduler so the machine stays testable without timing.
package guess

import (
	"context"
	"math"
	"time"

	"github.com/benklinger/kamaole/internal/domain/pricing"
)

// Default interaction tuning constants.
const (
	// defaultClickThreshold is the maximum pointer displacement, in
	// pixels, for a press+release to still count as a click.
	defaultClickThreshold = 5.0
	// defaultWidth is the assumed pixel width of the control when none
	// is configured.
	defaultWidth = 300.0
	// defaultRampDuration bounds the initial value-ramp animation.
	defaultRampDuration = 300 * time.Millisecond
)

// State is the slider controller's interaction state.
type State int

// Controller states.
const (
	Idle State = iota
	Dragging
	Settled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Controller drives a single price-selection control over a derived
// slider range. It is owned by one page session and is not safe for
// concurrent use; the game is single-threaded and event-driven.
type Controller struct {
	bounds pricing.Bounds

	state State
	value int

	// Pointer tracking for the active drag.
	startX float64
	moved  float64

	// Configuration.
	width          float64
	clickThreshold float64
	rampDuration   time.Duration
	scheduler      Scheduler

	// Side-effect hooks.
	onChange  func(value int)
	onConfirm func(value int)

	// rampGen supersedes in-flight ramps: any interaction or newer ramp
	// bumps the generation and orphaned ticks become no-ops.
	rampGen int
}

// NewController creates a controller over bounds. The initial displayed
// value is the range midpoint, rounded to an integer.
func NewController(bounds pricing.Bounds, opts ...Option) *Controller {
	c := &Controller{
		bounds:         bounds,
		state:          Idle,
		width:          defaultWidth,
		clickThreshold: defaultClickThreshold,
		rampDuration:   defaultRampDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.value = bounds.Midpoint()
	return c
}

// Value returns the currently displayed value.
func (c *Controller) Value() int {
	return c.value
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// Bounds returns the slider range the controller runs over.
func (c *Controller) Bounds() pricing.Bounds {
	return c.bounds
}

// Ramp replays the cosmetic entry animation: the displayed value climbs
// from the lower bound to the midpoint over the configured duration.
// Without a scheduler it is a no-op and the value is already the
// midpoint. Triggering a second ramp before the first completes simply
// supersedes it.
func (c *Controller) Ramp(ctx context.Context) {
	target := c.bounds.Midpoint()
	if c.scheduler == nil {
		c.setDisplayed(target)
		return
	}
	c.rampGen++
	gen := c.rampGen
	from := c.bounds.Lower
	c.setDisplayed(from)
	c.scheduler.Schedule(ctx, c.rampDuration, func(progress float64) {
		if gen != c.rampGen {
			return
		}
		eased := easeOutCubic(progress)
		c.setDisplayed(int(math.Round(float64(from) + float64(target-from)*eased)))
	})
}

// PointerDown begins a potential drag at pixel position x.
func (c *Controller) PointerDown(x float64) {
	c.rampGen++ // interaction cancels any in-flight ramp
	c.state = Dragging
	c.startX = x
	c.moved = 0
}

// PointerMove recomputes the candidate value while dragging: the pointer
// position is linearly interpolated across the control's width into the
// bounds, snapped to the nearest step multiple, and clamped. A change
// side effect fires only when the snapped value differs from the one
// displayed.
func (c *Controller) PointerMove(x float64) {
	if c.state != Dragging {
		return
	}
	if d := math.Abs(x - c.startX); d > c.moved {
		c.moved = d
	}
	span := float64(c.bounds.Upper - c.bounds.Lower)
	candidate := float64(c.bounds.Lower) + (x/c.width)*span
	c.setDisplayed(c.bounds.Snap(candidate))
}

// PointerUp ends the interaction. A release whose total displacement
// stayed within the click threshold is a click and emits the confirm
// action carrying the displayed value; a drag release suppresses
// confirm. Returns true when the release confirmed.
func (c *Controller) PointerUp(x float64) bool {
	if c.state != Dragging {
		return false
	}
	if d := math.Abs(x - c.startX); d > c.moved {
		c.moved = d
	}
	c.state = Settled
	if c.moved <= c.clickThreshold {
		c.confirm()
		return true
	}
	return false
}

// PointerCancel behaves like PointerUp without ever confirming.
func (c *Controller) PointerCancel() {
	if c.state != Dragging {
		return
	}
	c.state = Settled
}

// SliderInput applies a direct slider value, as delivered by a native
// range input. The value is snapped and clamped like a drag.
func (c *Controller) SliderInput(v int) {
	c.rampGen++
	c.setDisplayed(c.bounds.Snap(float64(v)))
}

// Confirm emits the confirm action for the displayed value, as from a
// dedicated confirm button. Ignored mid-drag. Returns the confirmed
// value.
func (c *Controller) Confirm() (int, bool) {
	if c.state == Dragging {
		return 0, false
	}
	c.confirm()
	return c.value, true
}

func (c *Controller) confirm() {
	c.state = Settled
	if c.onConfirm != nil {
		c.onConfirm(c.value)
	}
}

func (c *Controller) setDisplayed(v int) {
	if v == c.value {
		return
	}
	c.value = v
	if c.onChange != nil {
		c.onChange(v)
	}
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
