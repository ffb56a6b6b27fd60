package guess

import "time"

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithWidth sets the pixel width of the control used for drag
// interpolation.
func WithWidth(px float64) Option {
	return func(c *Controller) {
		if px > 0 {
			c.width = px
		}
	}
}

// WithClickThreshold sets the maximum pointer displacement, in pixels,
// for a press+release to count as a click.
func WithClickThreshold(px float64) Option {
	return func(c *Controller) {
		if px >= 0 {
			c.clickThreshold = px
		}
	}
}

// WithRampDuration bounds the entry value-ramp animation.
func WithRampDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.rampDuration = d
		}
	}
}

// WithScheduler sets the tick scheduler driving value ramps. Without
// one, ramps complete immediately.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithChangeHandler registers the value-changed side effect. It fires
// only when the displayed value actually changes.
func WithChangeHandler(fn func(value int)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithConfirmHandler registers the confirm side effect carrying the
// final guessed value.
func WithConfirmHandler(fn func(value int)) Option {
	return func(c *Controller) {
		c.onConfirm = fn
	}
}
