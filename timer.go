package kiosk

import "time"

// Clock is a frame-driven timer source. Time only moves when Advance is
// called (once per Stage update), so timer callbacks run on the game loop
// between input dispatches and never race with them.
type Clock struct {
	now    time.Duration
	timers []*Timer
	nextID uint64
}

// NewClock creates a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Pending returns the number of timers that are armed.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// AfterFunc arms a one-shot timer that calls fn after d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) *Timer {
	return c.arm(d, 0, fn)
}

// Every arms a repeating timer that calls fn every d. The first call happens
// after d. Non-positive periods are clamped to one nanosecond.
func (c *Clock) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = 1
	}
	return c.arm(d, d, fn)
}

func (c *Clock) arm(d, period time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	c.nextID++
	t := &Timer{clock: c, id: c.nextID, deadline: c.now + d, period: period, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by dt and fires every timer whose deadline
// falls inside the window, in deadline order (ties by arming order). A
// repeating timer fires once per elapsed period. Timers stopped by an earlier
// callback in the same window do not fire.
func (c *Clock) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	target := c.now + dt
	for {
		next := c.earliest(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		if next.period > 0 {
			next.deadline += next.period
		} else {
			c.remove(next)
		}
		next.fn()
	}
	c.now = target
}

func (c *Clock) earliest(limit time.Duration) *Timer {
	var best *Timer
	for _, t := range c.timers {
		if t.deadline > limit {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (c *Clock) remove(t *Timer) {
	for i, x := range c.timers {
		if x == t {
			copy(c.timers[i:], c.timers[i+1:])
			c.timers[len(c.timers)-1] = nil
			c.timers = c.timers[:len(c.timers)-1]
			t.stopped = true
			return
		}
	}
}

// NewGroup creates a TimerGroup that owns the timers armed through it.
func (c *Clock) NewGroup() *TimerGroup {
	return &TimerGroup{clock: c}
}

// Timer is a cancellable callback armed on a Clock.
type Timer struct {
	clock    *Clock
	id       uint64
	deadline time.Duration
	period   time.Duration
	fn       func()
	stopped  bool
}

// Stop disarms the timer. It returns false if the timer had already fired
// (one-shot) or been stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.clock.remove(t)
	return true
}

// Active reports whether the timer is still armed.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// TimerGroup scopes timers to an owner (a scene, or one screen of a scene).
// StopAll releases every timer the group armed.
type TimerGroup struct {
	clock  *Clock
	timers []*Timer
}

// AfterFunc arms a one-shot timer owned by the group.
func (g *TimerGroup) AfterFunc(d time.Duration, fn func()) *Timer {
	g.prune()
	t := g.clock.AfterFunc(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// Every arms a repeating timer owned by the group.
func (g *TimerGroup) Every(d time.Duration, fn func()) *Timer {
	g.prune()
	t := g.clock.Every(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// Pending returns how many of the group's timers are still armed.
func (g *TimerGroup) Pending() int {
	n := 0
	for _, t := range g.timers {
		if t.Active() {
			n++
		}
	}
	return n
}

// StopAll disarms every timer in the group.
func (g *TimerGroup) StopAll() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = g.timers[:0]
}

// prune drops fired or stopped timers so long-lived groups stay small.
func (g *TimerGroup) prune() {
	live := g.timers[:0]
	for _, t := range g.timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(g.timers); i++ {
		g.timers[i] = nil
	}
	g.timers = live
}
