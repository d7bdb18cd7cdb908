// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"context"
	"fmt"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/dq542ma"
	"github.com/GermanBionicSystems/stepper/drv8825"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"github.com/GermanBionicSystems/stepper/motion"
	"github.com/GermanBionicSystems/stepper/ramp"
	"github.com/GermanBionicSystems/stepper/sequencer"
	"github.com/GermanBionicSystems/stepper/stspin220"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// Lookup resolves a pin name. gpioreg.ByName is one.
type Lookup func(name string) gpio.PinIO

// Motor is a driver built from a Config.
type Motor struct {
	// Driver moves the motor.
	Driver motion.Driver
	// Modes controls the step mode. It is nil when the mode pins are not
	// configured.
	Modes stepper.StepModeController
	// Coils releases the windings. It is nil when the driver cannot.
	Coils stepper.CoilReleaser
	// StepMode is the configured step mode, zero when not configured.
	StepMode    stepper.StepMode
	TickRate    physic.Frequency
	MaxVelocity float64
	Profile     motion.Profile
}

// Open resolves the pins with lookup and builds the motor. A nil lookup is
// gpioreg.ByName, which needs host.Init to have been called.
func (c *Config) Open(lookup Lookup) (*Motor, error) {
	if lookup == nil {
		lookup = gpioreg.ByName
	}
	pin := func(name string) (gpio.PinOut, error) {
		p := lookup(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
		}
		return p, nil
	}

	m := &Motor{MaxVelocity: c.Profile.MaxVelocity}
	if err := m.TickRate.Set(c.TickRate); err != nil {
		return nil, fmt.Errorf("%w: tick_rate: %w", ErrInvalid, err)
	}
	if c.StepMode != "" {
		mode, err := stepper.ParseStepMode(c.StepMode)
		if err != nil {
			return nil, fmt.Errorf("%w: step_mode: %w", ErrInvalid, err)
		}
		m.StepMode = mode
	}
	switch c.Profile.Kind {
	case Constant:
		m.Profile = ramp.NewConstant()
	default:
		m.Profile = ramp.NewTrapezoidal(c.Profile.Acceleration)
	}

	if c.Driver == Sequencer {
		lines := make([]gpio.PinOut, 0, len(c.Pins.Lines))
		for _, name := range c.Pins.Lines {
			p, err := pin(name)
			if err != nil {
				return nil, err
			}
			lines = append(lines, p)
		}
		d, err := sequencer.New(c.Sequence, &sequencer.Opts{PulseLength: c.PulseLength})
		if err != nil {
			return nil, err
		}
		w, err := d.EnableStepControl(lines...)
		if err != nil {
			return nil, err
		}
		m.Driver, m.Coils = w, w
		return m, nil
	}

	dir, err := pin(c.Pins.Dir)
	if err != nil {
		return nil, err
	}
	step, err := pin(c.Pins.Step)
	if err != nil {
		return nil, err
	}
	switch c.Driver {
	case DQ542MA:
		m.Driver = dq542ma.New().EnableDirectionControl(dir).EnableStepControl(step)
	case DRV8825:
		d := drv8825.New().EnableDirectionControl(dir).EnableStepControl(step)
		if !c.hasModePins() {
			m.Driver = d
			break
		}
		var modes [4]gpio.PinOut
		for i, name := range []string{c.Pins.Reset, c.Pins.Mode0, c.Pins.Mode1, c.Pins.Mode2} {
			if modes[i], err = pin(name); err != nil {
				return nil, err
			}
		}
		full := d.EnableStepModeControl(modes[0], modes[1], modes[2], modes[3])
		m.Driver, m.Modes = full, full
	case STSPIN220:
		d := stspin220.New().EnableDirectionControl(dir).EnableStepControl(step)
		if !c.hasModePins() {
			m.Driver = d
			break
		}
		var modes [3]gpio.PinOut
		for i, name := range []string{c.Pins.StandbyReset, c.Pins.Mode1, c.Pins.Mode2} {
			if modes[i], err = pin(name); err != nil {
				return nil, err
			}
		}
		full := d.EnableStepModeControl(modes[0], modes[1], modes[2])
		m.Driver, m.Modes = full, full
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	return m, nil
}

// Timer returns a host timer at the configured tick rate.
func (m *Motor) Timer() (*hosttimer.Timer, error) {
	return hosttimer.New(m.TickRate)
}

// Configure applies the configured step mode, if any.
func (m *Motor) Configure(ctx context.Context, timer stepper.Timer) error {
	if m.Modes == nil || m.StepMode == 0 {
		return nil
	}
	return stepper.SetStepMode(m.Modes, m.StepMode, timer).Await(ctx)
}

// Controller returns a software motion controller owning the driver and
// timer. A nil logger logs nothing.
func (m *Motor) Controller(timer stepper.Timer, logger *zap.Logger) *motion.Controller[motion.Driver] {
	return motion.New(m.Driver, timer, m.Profile, &motion.Opts{Logger: logger})
}
