// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"context"
	"time"
)

// Timer is a non-blocking countdown timer.
type Timer interface {
	// Start begins a countdown of at least d, discarding any countdown in
	// progress.
	Start(d time.Duration) error
	// Wait returns nil once the countdown elapsed and ErrWouldBlock while it
	// is still running. Any other error is a timer failure.
	Wait() error
}

// Notifier is implemented by timers and futures that can tell when the
// running countdown elapses, so callers can park instead of spinning.
type Notifier interface {
	// Expired returns a channel that receives once the countdown running at
	// the time of the call has elapsed. A nil channel means the caller has
	// to poll.
	Expired() <-chan time.Time
}

// Delay is a suspend-until-elapsed delay primitive.
type Delay interface {
	Delay(ctx context.Context, d time.Duration) error
}

// TimerDelay implements Delay on top of a Timer.
type TimerDelay struct {
	t Timer
}

// DelayFromTimer returns a Delay that runs its countdowns on t.
func DelayFromTimer(t Timer) *TimerDelay {
	return &TimerDelay{t: t}
}

// Delay implements Delay.
func (d *TimerDelay) Delay(ctx context.Context, dur time.Duration) error {
	return Await(ctx, &delayFuture{phase: phase{timer: d.t, op: "delay"}, d: dur})
}

type delayFuture struct {
	phase
	d       time.Duration
	started bool
}

func (f *delayFuture) Poll() (bool, error) {
	if f.done {
		return true, f.err
	}
	if !f.started {
		f.started = true
		if err := f.start(f.d); err != nil {
			return f.finish(err)
		}
		return false, nil
	}
	ok, err := f.elapsed()
	if err != nil || ok {
		return f.finish(err)
	}
	return false, nil
}

var _ Delay = &TimerDelay{}
