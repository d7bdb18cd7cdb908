// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"fmt"
	"strconv"
	"strings"
)

// StepMode is a microstepping resolution, expressed as the number of
// microsteps in one full step.
type StepMode uint16

const (
	Full StepMode = 1
	M2   StepMode = 2
	M4   StepMode = 4
	M8   StepMode = 8
	M16  StepMode = 16
	M32  StepMode = 32
	M64  StepMode = 64
	M128 StepMode = 128
	M256 StepMode = 256
)

// StepModeFromDivisor returns the StepMode with the given number of
// microsteps per full step.
func StepModeFromDivisor(divisor uint16) (StepMode, error) {
	m := StepMode(divisor)
	if !m.valid() {
		return 0, fmt.Errorf("%w: %d microsteps per step", ErrUnsupportedStepMode, divisor)
	}
	return m, nil
}

// ParseStepMode parses "full", a divisor like "16" or a fraction like
// "1/16".
func ParseStepMode(s string) (StepMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "full" {
		return Full, nil
	}
	s = strings.TrimPrefix(s, "1/")
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedStepMode, s)
	}
	return StepModeFromDivisor(uint16(v))
}

// Divisor returns the number of microsteps in one full step.
func (m StepMode) Divisor() uint16 {
	return uint16(m)
}

func (m StepMode) String() string {
	switch {
	case m == Full:
		return "Full"
	case m.valid():
		return "1/" + strconv.Itoa(int(m))
	default:
		return "StepMode(" + strconv.Itoa(int(m)) + ")"
	}
}

func (m StepMode) valid() bool {
	return m != 0 && m <= M256 && m&(m-1) == 0
}
