// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stspin220

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/internal/line"
	"periph.io/x/conn/v3/gpio"
)

const (
	// ModeSetupTime is how long MODEx must be stable before STBY/RESET is
	// released.
	ModeSetupTime = 1 * time.Microsecond
	// ModeHoldTime is how long MODEx must stay stable after STBY/RESET is
	// released.
	ModeHoldTime = 100 * time.Microsecond
	// DirectionSetupTime is the minimum time DIR must lead the STEP edge.
	DirectionSetupTime = 100 * time.Nanosecond
	// PulseLength is the minimum STEP high time.
	PulseLength = 100 * time.Nanosecond
)

// modeTable holds the MODE1, MODE2, MODE3 (STEP) and MODE4 (DIR) levels of
// each step mode.
var modeTable = map[stepper.StepMode][4]gpio.Level{
	stepper.Full: {gpio.Low, gpio.Low, gpio.Low, gpio.Low},
	stepper.M2:   {gpio.High, gpio.Low, gpio.High, gpio.Low},
	stepper.M4:   {gpio.Low, gpio.High, gpio.Low, gpio.High},
	stepper.M8:   {gpio.High, gpio.High, gpio.High, gpio.Low},
	stepper.M16:  {gpio.High, gpio.High, gpio.High, gpio.High},
	stepper.M32:  {gpio.Low, gpio.High, gpio.Low, gpio.Low},
	stepper.M64:  {gpio.High, gpio.High, gpio.Low, gpio.High},
	stepper.M128: {gpio.High, gpio.Low, gpio.Low, gpio.Low},
	stepper.M256: {gpio.High, gpio.High, gpio.Low, gpio.Low},
}

// Supports reports whether the STSPIN220 has step mode m.
func Supports(m stepper.StepMode) bool {
	_, ok := modeTable[m]
	return ok
}

// Pins are the control lines attached to a driver. Lines that were never
// attached are nil.
type Pins struct {
	StandbyReset gpio.PinOut
	Mode1        gpio.PinOut
	Mode2        gpio.PinOut
	Dir          gpio.PinOut
	Step         gpio.PinOut
}

// Dev is a STSPIN220 without any control line attached.
type Dev struct{}

// New returns a STSPIN220 handle. Attach lines to it with the Enable
// methods.
func New() *Dev {
	return &Dev{}
}

// EnableDirectionControl attaches the DIR/MODE4 line.
func (d *Dev) EnableDirectionControl(dir gpio.PinOut) *WithDir {
	return &WithDir{DirPin: line.NewDirPin(dir, DirectionSetupTime)}
}

// EnableStepControl attaches the STEP/MODE3 line.
func (d *Dev) EnableStepControl(step gpio.PinOut) *WithStep {
	return &WithStep{StepPin: line.NewStepPin(step, PulseLength)}
}

func (d *Dev) String() string {
	return "STSPIN220"
}

// WithDir is a STSPIN220 with the DIR line attached.
type WithDir struct {
	line.DirPin
}

// EnableStepControl attaches the STEP/MODE3 line. d must not be used
// afterwards.
func (d *WithDir) EnableStepControl(step gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: d.DirPin, StepPin: line.NewStepPin(step, PulseLength)}
}

// Release returns the attached lines.
func (d *WithDir) Release() Pins {
	return Pins{Dir: d.DirectionLine()}
}

// WithStep is a STSPIN220 with the STEP line attached.
type WithStep struct {
	line.StepPin
}

// EnableDirectionControl attaches the DIR/MODE4 line. d must not be used
// afterwards.
func (d *WithStep) EnableDirectionControl(dir gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: line.NewDirPin(dir, DirectionSetupTime), StepPin: d.StepPin}
}

// Release returns the attached lines.
func (d *WithStep) Release() Pins {
	return Pins{Step: d.StepLine()}
}

// WithDirStep is a STSPIN220 with the DIR and STEP lines attached.
type WithDirStep struct {
	line.DirPin
	line.StepPin
}

// EnableStepModeControl attaches STBY/RESET, MODE1 and MODE2. d must not be
// used afterwards.
func (d *WithDirStep) EnableStepModeControl(standbyReset, mode1, mode2 gpio.PinOut) *WithModeDirStep {
	return &WithModeDirStep{
		DirPin:       d.DirPin,
		StepPin:      d.StepPin,
		standbyReset: standbyReset,
		mode1:        mode1,
		mode2:        mode2,
	}
}

// Release returns the attached lines.
func (d *WithDirStep) Release() Pins {
	return Pins{Dir: d.DirectionLine(), Step: d.StepLine()}
}

// WithModeDirStep is a STSPIN220 with every control line attached.
type WithModeDirStep struct {
	line.DirPin
	line.StepPin
	standbyReset gpio.PinOut
	mode1        gpio.PinOut
	mode2        gpio.PinOut
}

// ModeSetupTime implements stepper.StepModeController.
func (d *WithModeDirStep) ModeSetupTime() time.Duration {
	return ModeSetupTime
}

// ModeHoldTime implements stepper.StepModeController.
func (d *WithModeDirStep) ModeHoldTime() time.Duration {
	return ModeHoldTime
}

// ApplyModeConfig implements stepper.StepModeController.
//
// It puts the chip in standby and drives MODE1 to MODE4. STEP and DIR are
// left at their mode levels.
func (d *WithModeDirStep) ApplyModeConfig(mode stepper.StepMode) error {
	levels, ok := modeTable[mode]
	if !ok {
		return fmt.Errorf("%w: STSPIN220 has no %s mode", stepper.ErrUnsupportedStepMode, mode)
	}
	if err := d.standbyReset.Out(gpio.Low); err != nil {
		return err
	}
	for i, p := range []gpio.PinOut{d.mode1, d.mode2, d.StepLine(), d.DirectionLine()} {
		if err := p.Out(levels[i]); err != nil {
			return err
		}
	}
	return nil
}

// EnableDriver implements stepper.StepModeController.
func (d *WithModeDirStep) EnableDriver() error {
	return d.standbyReset.Out(gpio.High)
}

// Release returns the attached lines.
func (d *WithModeDirStep) Release() Pins {
	return Pins{
		StandbyReset: d.standbyReset,
		Mode1:        d.mode1,
		Mode2:        d.mode2,
		Dir:          d.DirectionLine(),
		Step:         d.StepLine(),
	}
}

var (
	_ stepper.DirectionController = &WithDir{}
	_ stepper.StepController      = &WithStep{}
	_ stepper.DirectionController = &WithDirStep{}
	_ stepper.StepController      = &WithDirStep{}
	_ stepper.StepModeController  = &WithModeDirStep{}
	_ stepper.DirectionController = &WithModeDirStep{}
	_ stepper.StepController      = &WithModeDirStep{}
)
