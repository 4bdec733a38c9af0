package game

import "time"

// TurnClock is the countdown for the player holding the turn. Only one
// countdown exists; arming it for a new holder invalidates the previous one.
type TurnClock struct {
	task     *Task
	interval time.Duration

	holder    string
	remaining int
	active    bool

	onTick   func(holder string, remaining int)
	onExpire func(holder string)
}

// NewTurnClock builds a clock whose seconds last interval. onTick runs after
// each decrement that leaves time on the clock; onExpire runs when it hits
// zero, after the clock has been cleared.
func NewTurnClock(task *Task, interval time.Duration, onTick func(string, int), onExpire func(string)) *TurnClock {
	return &TurnClock{
		task:     task,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Arm starts a full countdown for holder
func (c *TurnClock) Arm(holder string, seconds int) {
	c.holder = holder
	c.remaining = seconds
	c.active = true
	c.task.Schedule(c.interval, c.tick)
}

// Cancel stops the countdown and clears it
func (c *TurnClock) Cancel() {
	c.task.Cancel()
	c.holder = ""
	c.remaining = 0
	c.active = false
}

// Remaining returns the seconds left, and false when no countdown is running
func (c *TurnClock) Remaining() (int, bool) {
	return c.remaining, c.active
}

// Holder returns the entrant the countdown belongs to
func (c *TurnClock) Holder() string {
	return c.holder
}

// Generation returns the token of the current countdown
func (c *TurnClock) Generation() uint64 {
	return c.task.Generation()
}

func (c *TurnClock) tick() {
	c.remaining--
	if c.remaining <= 0 {
		holder := c.holder
		c.Cancel()
		c.onExpire(holder)
		return
	}
	c.task.Schedule(c.interval, c.tick)
	c.onTick(c.holder, c.remaining)
}
