package engine

import (
	"testing"
	"time"
)

// fakeScheduler queues frame callbacks for manual draining.
type fakeScheduler struct {
	pending []func()
}

func (s *fakeScheduler) schedule(f func()) { s.pending = append(s.pending, f) }

func (s *fakeScheduler) drain() int {
	ran := 0
	for len(s.pending) > 0 {
		f := s.pending[0]
		s.pending = s.pending[1:]
		f()
		ran++
		if ran > 1000 {
			panic("scheduler runaway")
		}
	}
	return ran
}

func TestControllerStartSchedulesFrames(t *testing.T) {
	sched := &fakeScheduler{}
	ticks := 0
	c := NewController(sched.schedule, func(dt float64) { ticks++ })

	cur := time.Unix(0, 0)
	c.SetClock(func() time.Time { return cur })

	c.Start()
	if !c.Running() {
		t.Fatal("controller not running after Start")
	}
	if len(sched.pending) != 1 {
		t.Fatalf("pending frames = %d, want 1", len(sched.pending))
	}

	// Run five frames, advancing the clock 16ms per frame.
	for i := 0; i < 5; i++ {
		cur = cur.Add(16 * time.Millisecond)
		f := sched.pending[0]
		sched.pending = sched.pending[1:]
		f()
	}
	if ticks != 5 {
		t.Errorf("ticks = %d, want 5", ticks)
	}
	if len(sched.pending) != 1 {
		t.Errorf("pending frames = %d, want exactly one rescheduled", len(sched.pending))
	}
}

func TestControllerStopHaltsChain(t *testing.T) {
	sched := &fakeScheduler{}
	ticks := 0
	c := NewController(sched.schedule, func(dt float64) { ticks++ })
	c.SetClock(func() time.Time { return time.Unix(0, 0) })

	c.Start()
	c.Stop()

	// The already-scheduled frame runs but must neither tick nor reschedule.
	sched.drain()
	if ticks != 0 {
		t.Errorf("ticks = %d after Stop, want 0", ticks)
	}
	if len(sched.pending) != 0 {
		t.Errorf("pending frames = %d after Stop, want 0", len(sched.pending))
	}
	if c.Running() {
		t.Error("controller still running after Stop")
	}
}

func TestControllerStopFromWithinTick(t *testing.T) {
	sched := &fakeScheduler{}
	var c *Controller
	ticks := 0
	c = NewController(sched.schedule, func(dt float64) {
		ticks++
		if ticks == 3 {
			c.Stop()
		}
	})
	c.SetClock(func() time.Time { return time.Unix(0, 0) })

	c.Start()
	sched.drain()

	if ticks != 3 {
		t.Errorf("ticks = %d, want 3 (stopped from inside tick 3)", ticks)
	}
}

func TestControllerReportsElapsedDT(t *testing.T) {
	sched := &fakeScheduler{}
	var got []float64
	c := NewController(sched.schedule, func(dt float64) { got = append(got, dt) })

	cur := time.Unix(0, 0)
	c.SetClock(func() time.Time { return cur })

	c.Start()

	cur = cur.Add(20 * time.Millisecond)
	f := sched.pending[0]
	sched.pending = sched.pending[1:]
	f()

	if len(got) != 1 || got[0] != 0.02 {
		t.Errorf("dt = %v, want [0.02]", got)
	}
}

func TestControllerCapsLargeDT(t *testing.T) {
	sched := &fakeScheduler{}
	var got []float64
	c := NewController(sched.schedule, func(dt float64) { got = append(got, dt) })

	cur := time.Unix(0, 0)
	c.SetClock(func() time.Time { return cur })

	c.Start()

	// Host stalled for 10 seconds; the frame delta is capped.
	cur = cur.Add(10 * time.Second)
	f := sched.pending[0]
	sched.pending = sched.pending[1:]
	f()

	if len(got) != 1 || got[0] != c.MaxDT {
		t.Errorf("dt = %v, want capped at %v", got, c.MaxDT)
	}
}

func TestControllerStartTwiceIsNoOp(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewController(sched.schedule, func(dt float64) {})
	c.SetClock(func() time.Time { return time.Unix(0, 0) })

	c.Start()
	c.Start()
	if len(sched.pending) != 1 {
		t.Errorf("pending frames = %d after double Start, want 1", len(sched.pending))
	}
}
