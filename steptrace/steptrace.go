// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package steptrace

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// Transition is a level change at an offset from the start of the trace.
type Transition struct {
	At    time.Duration
	Level gpio.Level
}

// Lane is the recorded signal of one pin.
type Lane struct {
	Name        string
	Transitions []Transition
}

// LevelAt returns the level at offset at, and false before the first
// recorded write.
func (l *Lane) LevelAt(at time.Duration) (gpio.Level, bool) {
	level, ok := gpio.Low, false
	for _, t := range l.Transitions {
		if t.At > at {
			break
		}
		level, ok = t.Level, true
	}
	return level, ok
}

// Pulses returns the widths of the completed pulses at level.
func (l *Lane) Pulses(level gpio.Level) []time.Duration {
	var out []time.Duration
	for i := 1; i < len(l.Transitions); i++ {
		if prev := l.Transitions[i-1]; prev.Level == level {
			out = append(out, l.Transitions[i].At-prev.At)
		}
	}
	return out
}

// Trace is a set of lanes sharing one clock.
type Trace struct {
	clock clockwork.Clock
	start time.Time

	mu    sync.Mutex
	lanes []*Lane
}

// New returns a trace starting now on clock. A nil clock is the real clock.
func New(clock clockwork.Clock) *Trace {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Trace{clock: clock, start: clock.Now()}
}

// Probe returns p wrapped so that level changes are recorded in a new lane
// named after p.
func (t *Trace) Probe(p gpio.PinOut) *Probe {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lanes = append(t.lanes, &Lane{Name: p.Name()})
	return &Probe{PinOut: p, trace: t, lane: len(t.lanes) - 1}
}

// Lanes returns a copy of the recorded lanes.
func (t *Trace) Lanes() []Lane {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Lane, len(t.lanes))
	for i, l := range t.lanes {
		out[i] = Lane{Name: l.Name, Transitions: append([]Transition(nil), l.Transitions...)}
	}
	return out
}

// Lane returns a copy of the lane named name.
func (t *Trace) Lane(name string) (Lane, bool) {
	for _, l := range t.Lanes() {
		if l.Name == name {
			return l, true
		}
	}
	return Lane{}, false
}

// Elapsed returns the time since the trace started.
func (t *Trace) Elapsed() time.Duration {
	return t.clock.Since(t.start)
}

func (t *Trace) record(lane int, level gpio.Level) {
	at := t.Elapsed()
	t.mu.Lock()
	defer t.mu.Unlock()
	l := t.lanes[lane]
	if n := len(l.Transitions); n != 0 && l.Transitions[n-1].Level == level {
		return
	}
	l.Transitions = append(l.Transitions, Transition{At: at, Level: level})
}

// Probe is a pin recording its level changes into a Trace.
type Probe struct {
	gpio.PinOut
	trace *Trace
	lane  int
}

// Out implements gpio.PinOut. Failed writes are not recorded.
func (p *Probe) Out(l gpio.Level) error {
	if err := p.PinOut.Out(l); err != nil {
		return err
	}
	p.trace.record(p.lane, l)
	return nil
}

var _ gpio.PinOut = &Probe{}
