// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hosttimer

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrNotStarted is returned by Wait before the first Start.
	ErrNotStarted = errors.New("hosttimer: not started")

	// ErrInvalidDuration is returned for negative durations and durations
	// that do not fit in the tick counter.
	ErrInvalidDuration = errors.New("hosttimer: invalid duration")

	// ErrInvalidFrequency is returned for a tick rate that is not positive.
	ErrInvalidFrequency = errors.New("hosttimer: invalid tick rate")
)

// MaxTicks is the largest countdown, in ticks.
const MaxTicks = 1<<32 - 1

// nsMicroHertz converts nanoseconds times µHz to a tick count.
const nsMicroHertz = uint64(time.Second) * uint64(physic.Hertz)

// Ticks returns the number of ticks at f needed to cover d, rounded up.
func Ticks(d time.Duration, f physic.Frequency) (uint64, error) {
	if f <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFrequency, f)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}
	hi, lo := bits.Mul64(uint64(d), uint64(f))
	lo, carry := bits.Add64(lo, nsMicroHertz-1, 0)
	hi += carry
	if hi >= nsMicroHertz {
		return 0, fmt.Errorf("%w: %s at %s", ErrInvalidDuration, d, f)
	}
	ticks, _ := bits.Div64(hi, lo, nsMicroHertz)
	return ticks, nil
}

// Duration returns the duration of ticks at f.
func Duration(ticks uint64, f physic.Frequency) time.Duration {
	if f <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(ticks, nsMicroHertz)
	if hi >= uint64(f) {
		return time.Duration(1<<63 - 1)
	}
	ns, _ := bits.Div64(hi, lo, uint64(f))
	if ns > 1<<63-1 {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ns)
}

// Timer is a stepper.Timer counting ticks on a clock.
type Timer struct {
	clock    clockwork.Clock
	freq     physic.Frequency
	deadline time.Time
	started  bool
}

// New returns a timer on the real clock ticking at freq.
func New(freq physic.Frequency) (*Timer, error) {
	return NewWithClock(clockwork.NewRealClock(), freq)
}

// NewWithClock returns a timer on clock ticking at freq.
func NewWithClock(clock clockwork.Clock, freq physic.Frequency) (*Timer, error) {
	if freq <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFrequency, freq)
	}
	return &Timer{clock: clock, freq: freq}, nil
}

// Frequency returns the tick rate.
func (t *Timer) Frequency() physic.Frequency {
	return t.freq
}

// Start implements stepper.Timer.
func (t *Timer) Start(d time.Duration) error {
	ticks, err := Ticks(d, t.freq)
	if err != nil {
		return err
	}
	if ticks > MaxTicks {
		return fmt.Errorf("%w: %d ticks at %s", ErrInvalidDuration, ticks, t.freq)
	}
	t.deadline = t.clock.Now().Add(Duration(ticks, t.freq))
	t.started = true
	return nil
}

// Wait implements stepper.Timer.
func (t *Timer) Wait() error {
	if !t.started {
		return ErrNotStarted
	}
	if t.clock.Now().Before(t.deadline) {
		return stepper.ErrWouldBlock
	}
	return nil
}

// Expired implements stepper.Notifier.
func (t *Timer) Expired() <-chan time.Time {
	if !t.started {
		return nil
	}
	return t.clock.After(t.deadline.Sub(t.clock.Now()))
}

func (t *Timer) String() string {
	return fmt.Sprintf("hosttimer.Timer{%s}", t.freq)
}

// Sleeper is a stepper.Delay on a clock.
type Sleeper struct {
	clock clockwork.Clock
}

// NewSleeper returns a delay on clock. A nil clock is the real clock.
func NewSleeper(clock clockwork.Clock) *Sleeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sleeper{clock: clock}
}

// Delay implements stepper.Delay.
func (s *Sleeper) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

// DelayTimer adapts a stepper.Delay into a stepper.Timer. Each countdown runs
// the delay in its own goroutine.
type DelayTimer struct {
	delay  stepper.Delay
	done   chan error
	cancel context.CancelFunc
	err    error
	ended  bool
}

// FromDelay returns a timer running its countdowns on d.
func FromDelay(d stepper.Delay) *DelayTimer {
	return &DelayTimer{delay: d}
}

// Start implements stepper.Timer. A countdown in progress is abandoned.
func (t *DelayTimer) Start(d time.Duration) error {
	t.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	t.done, t.cancel, t.err, t.ended = done, cancel, nil, false
	go func() {
		done <- t.delay.Delay(ctx, d)
	}()
	return nil
}

// Wait implements stepper.Timer.
func (t *DelayTimer) Wait() error {
	if t.done == nil {
		return ErrNotStarted
	}
	if !t.ended {
		select {
		case err := <-t.done:
			t.err, t.ended = err, true
			t.cancel()
		default:
			return stepper.ErrWouldBlock
		}
	}
	return t.err
}

// Expired implements stepper.Notifier.
func (t *DelayTimer) Expired() <-chan time.Time {
	if t.done == nil {
		return nil
	}
	ch := make(chan time.Time, 1)
	if t.ended {
		ch <- time.Time{}
		return ch
	}
	done := t.done
	go func() {
		err := <-done
		// Put the result back for Wait.
		done <- err
		ch <- time.Time{}
	}()
	return ch
}

// Stop abandons the countdown in progress, if any.
func (t *DelayTimer) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
}

var (
	_ stepper.Timer    = &Timer{}
	_ stepper.Notifier = &Timer{}
	_ stepper.Delay    = &Sleeper{}
	_ stepper.Timer    = &DelayTimer{}
	_ stepper.Notifier = &DelayTimer{}
)
