package core

import "time"

// Timer supplies frame timing to scene animation hooks.
// Elapsed is the duration of the last frame, Total the time since start (both in seconds).
type Timer interface {
	Elapsed() float64
	Total() float64
}

// FixedTimer advances by a fixed step every Tick. Used for deterministic
// animation renders where frame N always sees the same time.
type FixedTimer struct {
	Step  float64
	total float64
	ticks int
}

// NewFixedTimer creates a timer advancing 1/fps seconds per tick
func NewFixedTimer(fps float64) *FixedTimer {
	if fps <= 0 {
		fps = 30
	}
	return &FixedTimer{Step: 1 / fps}
}

// Tick advances the timer by one step
func (t *FixedTimer) Tick() {
	t.ticks++
	t.total += t.Step
}

// Elapsed returns the fixed step once the timer has started
func (t *FixedTimer) Elapsed() float64 {
	if t.ticks == 0 {
		return 0
	}
	return t.Step
}

// Total returns accumulated time
func (t *FixedTimer) Total() float64 { return t.total }

// ClockTimer measures wall-clock time between ticks
type ClockTimer struct {
	start   time.Time
	last    time.Time
	elapsed float64
	now     func() time.Time
}

// NewClockTimer creates a wall-clock timer starting now
func NewClockTimer() *ClockTimer {
	return newClockTimer(time.Now)
}

func newClockTimer(now func() time.Time) *ClockTimer {
	start := now()
	return &ClockTimer{start: start, last: start, now: now}
}

// Tick records the time since the previous tick
func (t *ClockTimer) Tick() {
	n := t.now()
	t.elapsed = n.Sub(t.last).Seconds()
	t.last = n
}

// Elapsed returns the duration of the last tick in seconds
func (t *ClockTimer) Elapsed() float64 { return t.elapsed }

// Total returns seconds since the timer was created, as of the last tick
func (t *ClockTimer) Total() float64 { return t.last.Sub(t.start).Seconds() }
