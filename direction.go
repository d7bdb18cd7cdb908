// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import "periph.io/x/conn/v3/gpio"

// Direction is the rotation direction of the motor.
type Direction uint8

const (
	// Forward is the direction selected by a High DIR signal.
	Forward Direction = iota
	// Backward is the direction selected by a Low DIR signal.
	Backward
)

// Level returns the DIR level that selects d.
func (d Direction) Level() gpio.Level {
	return d == Forward
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Backward:
		return "Backward"
	default:
		return "Direction(?)"
	}
}
