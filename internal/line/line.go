// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package line implements the DIR and STEP signals shared by STEP/DIR driver
// chips.
package line

import (
	"time"

	"github.com/GermanBionicSystems/stepper"
	"periph.io/x/conn/v3/gpio"
)

// DirPin is a DIR input driven by one output pin.
type DirPin struct {
	pin   gpio.PinOut
	setup time.Duration
}

// NewDirPin returns a DIR signal on p with the chip's setup time.
func NewDirPin(p gpio.PinOut, setup time.Duration) DirPin {
	return DirPin{pin: p, setup: setup}
}

// DirectionSetupTime implements stepper.DirectionController.
func (d *DirPin) DirectionSetupTime() time.Duration {
	return d.setup
}

// Dir implements stepper.DirectionController.
func (d *DirPin) Dir(dir stepper.Direction) (stepper.PinAction, error) {
	return stepper.SetLevel(d.pin, dir.Level()), nil
}

// DirectionLine returns the pin.
func (d *DirPin) DirectionLine() gpio.PinOut {
	return d.pin
}

// StepPin is a STEP input driven by one output pin. A step is a High pulse.
type StepPin struct {
	pin   gpio.PinOut
	pulse time.Duration
}

// NewStepPin returns a STEP signal on p with the chip's minimum pulse width.
func NewStepPin(p gpio.PinOut, pulse time.Duration) StepPin {
	return StepPin{pin: p, pulse: pulse}
}

// PulseLength implements stepper.StepController.
func (s *StepPin) PulseLength() time.Duration {
	return s.pulse
}

// StepLeading implements stepper.StepController.
func (s *StepPin) StepLeading() ([]stepper.PinAction, error) {
	return []stepper.PinAction{stepper.SetLevel(s.pin, gpio.High)}, nil
}

// StepTrailing implements stepper.StepController.
func (s *StepPin) StepTrailing() ([]stepper.PinAction, error) {
	return []stepper.PinAction{stepper.SetLevel(s.pin, gpio.Low)}, nil
}

// StepLine returns the pin.
func (s *StepPin) StepLine() gpio.PinOut {
	return s.pin
}
