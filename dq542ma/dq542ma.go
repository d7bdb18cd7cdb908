// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dq542ma

import (
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/internal/line"
	"periph.io/x/conn/v3/gpio"
)

const (
	// DirectionSetupTime is the minimum time DIR must lead the PUL edge.
	DirectionSetupTime = 500 * time.Nanosecond
	// PulseLength is the minimum width of a PUL pulse.
	PulseLength = 5050 * time.Nanosecond
)

// Pins are the control lines attached to a driver. Lines that were never
// attached are nil.
type Pins struct {
	Dir  gpio.PinOut
	Step gpio.PinOut
}

// Dev is a DQ542MA without any control line attached.
type Dev struct{}

// New returns a DQ542MA handle. Attach lines to it with the Enable methods.
func New() *Dev {
	return &Dev{}
}

// EnableDirectionControl attaches the DIR line.
func (d *Dev) EnableDirectionControl(dir gpio.PinOut) *WithDir {
	return &WithDir{DirPin: line.NewDirPin(dir, DirectionSetupTime)}
}

// EnableStepControl attaches the PUL line.
func (d *Dev) EnableStepControl(step gpio.PinOut) *WithStep {
	return &WithStep{StepPin: line.NewStepPin(step, PulseLength)}
}

func (d *Dev) String() string {
	return "DQ542MA"
}

// WithDir is a DQ542MA with only the DIR line attached.
type WithDir struct {
	line.DirPin
}

// EnableStepControl attaches the PUL line. d must not be used afterwards.
func (d *WithDir) EnableStepControl(step gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: d.DirPin, StepPin: line.NewStepPin(step, PulseLength)}
}

// Release returns the attached lines.
func (d *WithDir) Release() Pins {
	return Pins{Dir: d.DirectionLine()}
}

func (d *WithDir) String() string {
	return "DQ542MA{dir}"
}

// WithStep is a DQ542MA with only the PUL line attached.
type WithStep struct {
	line.StepPin
}

// EnableDirectionControl attaches the DIR line. d must not be used
// afterwards.
func (d *WithStep) EnableDirectionControl(dir gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: line.NewDirPin(dir, DirectionSetupTime), StepPin: d.StepPin}
}

// Release returns the attached lines.
func (d *WithStep) Release() Pins {
	return Pins{Step: d.StepLine()}
}

func (d *WithStep) String() string {
	return "DQ542MA{step}"
}

// WithDirStep is a DQ542MA with both lines attached.
type WithDirStep struct {
	line.DirPin
	line.StepPin
}

// Release returns the attached lines.
func (d *WithDirStep) Release() Pins {
	return Pins{Dir: d.DirectionLine(), Step: d.StepLine()}
}

func (d *WithDirStep) String() string {
	return "DQ542MA{dir,step}"
}

var (
	_ stepper.DirectionController = &WithDir{}
	_ stepper.StepController      = &WithStep{}
	_ stepper.DirectionController = &WithDirStep{}
	_ stepper.StepController      = &WithDirStep{}
)
