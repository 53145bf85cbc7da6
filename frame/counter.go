package frame

import "time"

// Clock abstracts time for pacing, tests substitute a manual clock
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }

// WallClock is the real-time Clock
var WallClock Clock = wallClock{}

// Counter tracks frame rate against a target frame duration.
// A zero target never delays and never reports missed frames.
type Counter struct {
	clock    Clock
	target   time.Duration
	last     time.Time
	avgFrame time.Duration
}

// NewCounter starts counting from the current clock time
func NewCounter(target time.Duration, clock Clock) *Counter {
	if clock == nil {
		clock = WallClock
	}
	return &Counter{
		clock:    clock,
		target:   target,
		last:     clock.Now(),
		avgFrame: time.Second,
	}
}

// Tick sleeps out the rest of the current frame and updates the smoothed
// frame duration estimate
func (c *Counter) Tick() {
	delta := c.clock.Now().Sub(c.last)
	if delta < c.target {
		c.clock.Sleep(c.target - delta)
		delta = c.target
	}
	c.avgFrame = time.Duration(0.125*float64(delta) + 0.875*float64(c.avgFrame))
	c.last = c.last.Add(delta)
}

// MissedFrames returns how many whole frames passed since the last tick
func (c *Counter) MissedFrames() int {
	if c.target <= 0 {
		return 0
	}
	return int(c.clock.Now().Sub(c.last) / c.target)
}

// CatchUp skips missed frames without touching the average
func (c *Counter) CatchUp() {
	if n := c.MissedFrames(); n > 0 {
		c.last = c.last.Add(time.Duration(n) * c.target)
	}
}

// Remaining is the time left in the current frame, zero when overdue
func (c *Counter) Remaining() time.Duration {
	d := c.target - c.clock.Now().Sub(c.last)
	return max(d, 0)
}

// Reset restarts the current frame at the present time
func (c *Counter) Reset() {
	c.last = c.clock.Now()
}

func (c *Counter) AvgFrame() time.Duration { return c.avgFrame }

func (c *Counter) Target() time.Duration { return c.target }

// Pacer converts wall time into whole logical frames for hosts that are
// called back at an arbitrary rate
type Pacer struct {
	clock  Clock
	target time.Duration
	last   time.Time
	frames int
}

// NewPacer starts pacing from the current clock time
func NewPacer(target time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = WallClock
	}
	return &Pacer{clock: clock, target: target, last: clock.Now(), frames: 1}
}

// Update returns the whole frames elapsed since the last frame boundary and
// moves the boundary forward by that many frames. Zero means the host
// callback came early and no frame should run.
func (p *Pacer) Update() int {
	if p.target <= 0 {
		p.frames = 1
		return 1
	}
	n := int(p.clock.Now().Sub(p.last) / p.target)
	if n > 0 {
		p.frames = n
		p.last = p.last.Add(time.Duration(n) * p.target)
	}
	return n
}

// Frames is the logical frame count covered by the last update
func (p *Pacer) Frames() int { return p.frames }

// Reset restarts pacing at the present time, used when a paused host resumes
func (p *Pacer) Reset() {
	p.last = p.clock.Now()
}
