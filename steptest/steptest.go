// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package steptest

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Event is one entry of the log kept by a Recorder: either a pin write or a
// timer start.
type Event struct {
	// Pin is the pin name, empty for a timer start.
	Pin   string
	Level gpio.Level
	// Delay is the duration a timer was started with.
	Delay time.Duration
}

func (e Event) String() string {
	if e.Pin == "" {
		return "wait " + e.Delay.String()
	}
	return fmt.Sprintf("%s=%s", e.Pin, e.Level)
}

// Out returns the event of writing l to the pin named name.
func Out(name string, l gpio.Level) Event {
	return Event{Pin: name, Level: l}
}

// Wait returns the event of starting a timer with d.
func Wait(d time.Duration) Event {
	return Event{Delay: d}
}

// Recorder is a shared log of pin writes and timer starts.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Pin returns a pin recording its writes into r.
func (r *Recorder) Pin(name string) *Pin {
	return &Pin{Pin: gpiotest.Pin{N: name, Num: -1}, rec: r}
}

// Timer returns a timer recording its starts into r. Every countdown
// elapses after polls calls to Wait.
func (r *Recorder) Timer(polls int) *Timer {
	return &Timer{Polls: polls, rec: r}
}

// Events returns a copy of the log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Writes returns the levels written to the pin named name, in order.
func (r *Recorder) Writes(name string) []gpio.Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []gpio.Level
	for _, e := range r.events {
		if e.Pin == name {
			out = append(out, e.Level)
		}
	}
	return out
}

// Count returns how many times l was written to the pin named name.
func (r *Recorder) Count(name string, l gpio.Level) int {
	n := 0
	for _, w := range r.Writes(name) {
		if w == l {
			n++
		}
	}
	return n
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) add(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Pin is a gpiotest.Pin that records its writes and can be made to fail.
type Pin struct {
	gpiotest.Pin
	// Err is returned by Out when set. Failed writes are not recorded.
	Err error

	rec *Recorder
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Err != nil {
		return p.Err
	}
	p.rec.add(Out(p.N, l))
	return p.Pin.Out(l)
}

// Level returns the last level written.
func (p *Pin) Level() gpio.Level {
	p.Lock()
	defer p.Unlock()
	return p.L
}

// Timer is a stepper.Timer that counts polls instead of time.
type Timer struct {
	// Polls is the number of Wait calls returning stepper.ErrWouldBlock
	// after each Start.
	Polls int
	// StartErr is returned by Start when set.
	StartErr error
	// Err is returned by Wait when set.
	Err error
	// Started lists the durations passed to Start.
	Started []time.Duration

	left int
	rec  *Recorder
}

// Start implements stepper.Timer.
func (t *Timer) Start(d time.Duration) error {
	if t.StartErr != nil {
		return t.StartErr
	}
	t.Started = append(t.Started, d)
	t.rec.add(Wait(d))
	t.left = t.Polls
	return nil
}

// Wait implements stepper.Timer.
func (t *Timer) Wait() error {
	if t.Err != nil {
		return t.Err
	}
	if t.left > 0 {
		t.left--
		return stepper.ErrWouldBlock
	}
	return nil
}

var (
	_ gpio.PinOut   = &Pin{}
	_ stepper.Timer = &Timer{}
)
