// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ramp

import (
	"math"
	"time"
)

// MaxDelay is the longest delay a profile returns.
const MaxDelay = time.Hour

// Trapezoidal accelerates at a constant rate up to the peak velocity, cruises,
// then decelerates at the same rate so that the last step is taken at low
// speed.
//
// Short moves never reach the peak velocity and form a triangle.
type Trapezoidal struct {
	acceleration float64
	maxVelocity  float64
	steps        uint32
	next         uint32
}

// NewTrapezoidal returns a profile accelerating at acceleration. An
// acceleration of zero or less disables the ramps.
func NewTrapezoidal(acceleration float64) *Trapezoidal {
	return &Trapezoidal{acceleration: acceleration}
}

// EnterPositionMode implements motion.Profile.
func (t *Trapezoidal) EnterPositionMode(maxVelocity float64, steps uint32) {
	t.maxVelocity = maxVelocity
	t.steps = steps
	t.next = 0
}

// NextDelay implements motion.Profile.
//
// The velocity after step i of n is the lowest of the peak velocity, the
// velocity reached by accelerating over i+1 steps and the velocity from which
// the remaining n-i steps allow a stop.
func (t *Trapezoidal) NextDelay() (time.Duration, bool) {
	if t.next >= t.steps {
		return 0, false
	}
	i := t.next
	t.next++
	v := t.maxVelocity
	if t.acceleration > 0 {
		up := math.Sqrt(2 * t.acceleration * float64(i+1))
		down := math.Sqrt(2 * t.acceleration * float64(t.steps-i))
		v = math.Min(v, math.Min(up, down))
	}
	return Delay(v), true
}

// Remaining returns the number of steps left in the move.
func (t *Trapezoidal) Remaining() uint32 {
	return t.steps - t.next
}

// Constant moves at the peak velocity from the first step to the last.
type Constant struct {
	delay time.Duration
	steps uint32
	next  uint32
}

// NewConstant returns a constant velocity profile.
func NewConstant() *Constant {
	return &Constant{}
}

// EnterPositionMode implements motion.Profile.
func (c *Constant) EnterPositionMode(maxVelocity float64, steps uint32) {
	c.delay = Delay(maxVelocity)
	c.steps = steps
	c.next = 0
}

// NextDelay implements motion.Profile.
func (c *Constant) NextDelay() (time.Duration, bool) {
	if c.next >= c.steps {
		return 0, false
	}
	c.next++
	return c.delay, true
}

// Remaining returns the number of steps left in the move.
func (c *Constant) Remaining() uint32 {
	return c.steps - c.next
}

// Delay returns the step interval at v steps per second, at most MaxDelay.
func Delay(v float64) time.Duration {
	switch {
	case math.IsInf(v, 1):
		return 0
	case !(v > 0):
		return MaxDelay
	}
	d := float64(time.Second) / v
	if d > float64(MaxDelay) {
		return MaxDelay
	}
	return time.Duration(math.Ceil(d))
}
