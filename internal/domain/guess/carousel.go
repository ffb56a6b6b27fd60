package guess

import "math"

// Default carousel tuning constants.
const (
	// defaultSwipeThreshold is the horizontal displacement, in pixels,
	// a swipe must exceed to change the current member.
	defaultSwipeThreshold = 50.0
)

// Direction is the transition hint emitted by carousel moves, used
// purely for animation; it has no effect on state beyond the index.
type Direction int

// Carousel directions.
const (
	DirectionNone Direction = iota
	Forward
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// Carousel tracks the current index over a bundle's ordered member
// products. Index changes wrap around at both ends.
type Carousel struct {
	length         int
	index          int
	swipeThreshold float64
}

// CarouselOption applies a configuration option to the Carousel.
type CarouselOption func(*Carousel)

// WithSwipeThreshold sets the minimum horizontal swipe displacement.
func WithSwipeThreshold(px float64) CarouselOption {
	return func(c *Carousel) {
		if px > 0 {
			c.swipeThreshold = px
		}
	}
}

// NewCarousel creates a carousel over length members, starting at the
// first. A non-positive length is treated as a single member.
func NewCarousel(length int, opts ...CarouselOption) *Carousel {
	if length < 1 {
		length = 1
	}
	c := &Carousel{
		length:         length,
		swipeThreshold: defaultSwipeThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index returns the current member index.
func (c *Carousel) Index() int {
	return c.index
}

// Len returns the member count.
func (c *Carousel) Len() int {
	return c.length
}

// Select jumps directly to index k, as from a dot click. Selecting the
// current index or an out-of-range one is a no-op.
func (c *Carousel) Select(k int) (Direction, bool) {
	if k == c.index || k < 0 || k >= c.length {
		return DirectionNone, false
	}
	dir := Forward
	if k < c.index {
		dir = Backward
	}
	c.index = k
	return dir, true
}

// Advance moves by delta members with wraparound, as from an image tap.
func (c *Carousel) Advance(delta int) Direction {
	c.index = ((c.index+delta)%c.length + c.length) % c.length
	if delta < 0 {
		return Backward
	}
	return Forward
}

// Swipe applies a horizontal swipe of deltaX pixels. A positive deltaX
// (rightward) moves to the previous member, a negative one to the next;
// displacement within the threshold is ignored.
func (c *Carousel) Swipe(deltaX float64) (Direction, bool) {
	if math.Abs(deltaX) <= c.swipeThreshold {
		return DirectionNone, false
	}
	if deltaX > 0 {
		return c.Advance(-1), true
	}
	return c.Advance(1), true
}
