// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8825

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/internal/line"
	"periph.io/x/conn/v3/gpio"
)

const (
	// ModeSetupTime is how long MODEx must be stable before nRESET is
	// released.
	ModeSetupTime = 650 * time.Nanosecond
	// ModeHoldTime is how long MODEx must stay stable after nRESET is
	// released.
	ModeHoldTime = 650 * time.Nanosecond
	// DirectionSetupTime is the minimum time DIR must lead the STEP edge.
	DirectionSetupTime = 650 * time.Nanosecond
	// PulseLength is the minimum STEP high time.
	PulseLength = 1900 * time.Nanosecond
)

// modeTable holds the MODE0, MODE1 and MODE2 levels of each step mode.
var modeTable = map[stepper.StepMode][3]gpio.Level{
	stepper.Full: {gpio.Low, gpio.Low, gpio.Low},
	stepper.M2:   {gpio.High, gpio.Low, gpio.Low},
	stepper.M4:   {gpio.Low, gpio.High, gpio.Low},
	stepper.M8:   {gpio.High, gpio.High, gpio.Low},
	stepper.M16:  {gpio.Low, gpio.Low, gpio.High},
	stepper.M32:  {gpio.High, gpio.Low, gpio.High},
}

// Pins are the control lines attached to a driver. Lines that were never
// attached are nil.
type Pins struct {
	Reset gpio.PinOut
	Mode0 gpio.PinOut
	Mode1 gpio.PinOut
	Mode2 gpio.PinOut
	Dir   gpio.PinOut
	Step  gpio.PinOut
}

type modePins struct {
	reset gpio.PinOut
	mode  [3]gpio.PinOut
}

// ModeSetupTime implements stepper.StepModeController.
func (m *modePins) ModeSetupTime() time.Duration {
	return ModeSetupTime
}

// Supports reports whether the DRV8825 has step mode m.
func Supports(m stepper.StepMode) bool {
	_, ok := modeTable[m]
	return ok
}

// ModeHoldTime implements stepper.StepModeController.
func (m *modePins) ModeHoldTime() time.Duration {
	return ModeHoldTime
}

// ApplyModeConfig implements stepper.StepModeController.
//
// It holds the driver in reset and drives the mode lines.
func (m *modePins) ApplyModeConfig(mode stepper.StepMode) error {
	levels, ok := modeTable[mode]
	if !ok {
		return fmt.Errorf("%w: DRV8825 has no %s mode", stepper.ErrUnsupportedStepMode, mode)
	}
	if err := m.reset.Out(gpio.Low); err != nil {
		return err
	}
	for i, p := range m.mode {
		if err := p.Out(levels[i]); err != nil {
			return err
		}
	}
	return nil
}

// EnableDriver implements stepper.StepModeController.
func (m *modePins) EnableDriver() error {
	return m.reset.Out(gpio.High)
}

func (m *modePins) pins(p *Pins) {
	p.Reset, p.Mode0, p.Mode1, p.Mode2 = m.reset, m.mode[0], m.mode[1], m.mode[2]
}

func newModePins(reset, mode0, mode1, mode2 gpio.PinOut) modePins {
	return modePins{reset: reset, mode: [3]gpio.PinOut{mode0, mode1, mode2}}
}

func newDir(dir gpio.PinOut) line.DirPin {
	return line.NewDirPin(dir, DirectionSetupTime)
}

func newStep(step gpio.PinOut) line.StepPin {
	return line.NewStepPin(step, PulseLength)
}

// Dev is a DRV8825 without any control line attached.
type Dev struct{}

// New returns a DRV8825 handle. Attach lines to it with the Enable methods.
func New() *Dev {
	return &Dev{}
}

// EnableStepModeControl attaches nRESET and the three mode lines.
func (d *Dev) EnableStepModeControl(reset, mode0, mode1, mode2 gpio.PinOut) *WithMode {
	return &WithMode{modePins: newModePins(reset, mode0, mode1, mode2)}
}

// EnableDirectionControl attaches the DIR line.
func (d *Dev) EnableDirectionControl(dir gpio.PinOut) *WithDir {
	return &WithDir{DirPin: newDir(dir)}
}

// EnableStepControl attaches the STEP line.
func (d *Dev) EnableStepControl(step gpio.PinOut) *WithStep {
	return &WithStep{StepPin: newStep(step)}
}

func (d *Dev) String() string {
	return "DRV8825"
}

// WithMode is a DRV8825 with the mode lines attached.
type WithMode struct {
	modePins
}

// EnableDirectionControl attaches the DIR line. d must not be used
// afterwards.
func (d *WithMode) EnableDirectionControl(dir gpio.PinOut) *WithModeDir {
	return &WithModeDir{modePins: d.modePins, DirPin: newDir(dir)}
}

// EnableStepControl attaches the STEP line. d must not be used afterwards.
func (d *WithMode) EnableStepControl(step gpio.PinOut) *WithModeStep {
	return &WithModeStep{modePins: d.modePins, StepPin: newStep(step)}
}

// Release returns the attached lines.
func (d *WithMode) Release() Pins {
	var p Pins
	d.pins(&p)
	return p
}

// WithDir is a DRV8825 with the DIR line attached.
type WithDir struct {
	line.DirPin
}

// EnableStepModeControl attaches nRESET and the mode lines. d must not be
// used afterwards.
func (d *WithDir) EnableStepModeControl(reset, mode0, mode1, mode2 gpio.PinOut) *WithModeDir {
	return &WithModeDir{modePins: newModePins(reset, mode0, mode1, mode2), DirPin: d.DirPin}
}

// EnableStepControl attaches the STEP line. d must not be used afterwards.
func (d *WithDir) EnableStepControl(step gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: d.DirPin, StepPin: newStep(step)}
}

// Release returns the attached lines.
func (d *WithDir) Release() Pins {
	return Pins{Dir: d.DirectionLine()}
}

// WithStep is a DRV8825 with the STEP line attached.
type WithStep struct {
	line.StepPin
}

// EnableStepModeControl attaches nRESET and the mode lines. d must not be
// used afterwards.
func (d *WithStep) EnableStepModeControl(reset, mode0, mode1, mode2 gpio.PinOut) *WithModeStep {
	return &WithModeStep{modePins: newModePins(reset, mode0, mode1, mode2), StepPin: d.StepPin}
}

// EnableDirectionControl attaches the DIR line. d must not be used
// afterwards.
func (d *WithStep) EnableDirectionControl(dir gpio.PinOut) *WithDirStep {
	return &WithDirStep{DirPin: newDir(dir), StepPin: d.StepPin}
}

// Release returns the attached lines.
func (d *WithStep) Release() Pins {
	return Pins{Step: d.StepLine()}
}

// WithModeDir is a DRV8825 with the mode and DIR lines attached.
type WithModeDir struct {
	modePins
	line.DirPin
}

// EnableStepControl attaches the STEP line. d must not be used afterwards.
func (d *WithModeDir) EnableStepControl(step gpio.PinOut) *WithModeDirStep {
	return &WithModeDirStep{modePins: d.modePins, DirPin: d.DirPin, StepPin: newStep(step)}
}

// Release returns the attached lines.
func (d *WithModeDir) Release() Pins {
	p := Pins{Dir: d.DirectionLine()}
	d.pins(&p)
	return p
}

// WithModeStep is a DRV8825 with the mode and STEP lines attached.
type WithModeStep struct {
	modePins
	line.StepPin
}

// EnableDirectionControl attaches the DIR line. d must not be used
// afterwards.
func (d *WithModeStep) EnableDirectionControl(dir gpio.PinOut) *WithModeDirStep {
	return &WithModeDirStep{modePins: d.modePins, DirPin: newDir(dir), StepPin: d.StepPin}
}

// Release returns the attached lines.
func (d *WithModeStep) Release() Pins {
	p := Pins{Step: d.StepLine()}
	d.pins(&p)
	return p
}

// WithDirStep is a DRV8825 with the DIR and STEP lines attached.
type WithDirStep struct {
	line.DirPin
	line.StepPin
}

// EnableStepModeControl attaches nRESET and the mode lines. d must not be
// used afterwards.
func (d *WithDirStep) EnableStepModeControl(reset, mode0, mode1, mode2 gpio.PinOut) *WithModeDirStep {
	return &WithModeDirStep{modePins: newModePins(reset, mode0, mode1, mode2), DirPin: d.DirPin, StepPin: d.StepPin}
}

// Release returns the attached lines.
func (d *WithDirStep) Release() Pins {
	return Pins{Dir: d.DirectionLine(), Step: d.StepLine()}
}

// WithModeDirStep is a DRV8825 with every control line attached.
type WithModeDirStep struct {
	modePins
	line.DirPin
	line.StepPin
}

// Release returns the attached lines.
func (d *WithModeDirStep) Release() Pins {
	p := Pins{Dir: d.DirectionLine(), Step: d.StepLine()}
	d.pins(&p)
	return p
}

var (
	_ stepper.StepModeController  = &WithMode{}
	_ stepper.DirectionController = &WithDir{}
	_ stepper.StepController      = &WithStep{}
	_ stepper.StepModeController  = &WithModeDir{}
	_ stepper.DirectionController = &WithModeDir{}
	_ stepper.StepModeController  = &WithModeStep{}
	_ stepper.StepController      = &WithModeStep{}
	_ stepper.DirectionController = &WithDirStep{}
	_ stepper.StepController      = &WithDirStep{}
	_ stepper.StepModeController  = &WithModeDirStep{}
	_ stepper.DirectionController = &WithModeDirStep{}
	_ stepper.StepController      = &WithModeDirStep{}
)
