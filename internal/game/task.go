package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Task runs one callback at a time after a delay. Every Schedule or Cancel
// bumps the generation, and a callback only runs if the generation it was
// scheduled under is still current, so a timer that fires after the state it
// belonged to has moved on is a no-op.
//
// Task methods must be called with lock held; callbacks run with lock held.
type Task struct {
	clock quartz.Clock
	lock  sync.Locker
	name  string
	gen   uint64
	timer *quartz.Timer
}

// NewTask creates a task that runs callbacks under lock
func NewTask(clock quartz.Clock, lock sync.Locker, name string) *Task {
	return &Task{clock: clock, lock: lock, name: name}
}

// Schedule cancels any pending callback and runs fn after d
func (t *Task) Schedule(d time.Duration, fn func()) {
	t.Cancel()
	gen := t.gen
	t.timer = t.clock.AfterFunc(d, func() {
		t.lock.Lock()
		defer t.lock.Unlock()
		if t.gen != gen {
			return
		}
		t.timer = nil
		fn()
	}, t.name)
}

// Cancel invalidates any pending callback
func (t *Task) Cancel() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a callback is scheduled
func (t *Task) Pending() bool {
	return t.timer != nil
}

// Generation returns the current generation token
func (t *Task) Generation() uint64 {
	return t.gen
}
