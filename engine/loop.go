package engine

import "time"

// Scheduler requests one future frame callback. The host injects its frame
// primitive (raylib's frame loop, a timer, or a test harness calling the
// callback synchronously).
type Scheduler func(frame func())

// Controller runs the animation as a self-limiting chain of scheduled
// ticks. Stop clears the running flag; the flag is checked before each
// frame executes and before the next one is scheduled, so no mid-tick
// interruption is ever needed.
type Controller struct {
	schedule Scheduler
	tick     func(dt float64)
	now      func() time.Time

	running bool
	last    time.Time

	// MaxDT caps the per-frame delta so a stalled host (window drag,
	// breakpoint) does not fling particles across the grid on resume.
	MaxDT float64
}

// NewController wires a controller to a scheduler and a tick function.
func NewController(schedule Scheduler, tick func(dt float64)) *Controller {
	return &Controller{
		schedule: schedule,
		tick:     tick,
		now:      time.Now,
		MaxDT:    0.1,
	}
}

// SetClock injects a clock, used by tests to drive dt deterministically.
func (c *Controller) SetClock(now func() time.Time) { c.now = now }

// Running reports whether the loop is active.
func (c *Controller) Running() bool { return c.running }

// Start begins the frame chain. Starting a running controller is a no-op.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.last = c.now()
	c.schedule(c.frame)
}

// Stop halts the loop before the next frame. The current frame, if one is
// executing, completes normally.
func (c *Controller) Stop() { c.running = false }

func (c *Controller) frame() {
	if !c.running {
		return
	}

	now := c.now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		dt = 0
	}
	if dt > c.MaxDT {
		dt = c.MaxDT
	}

	c.tick(dt)

	if c.running {
		c.schedule(c.frame)
	}
}
