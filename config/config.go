// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"math"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/drv8825"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"github.com/GermanBionicSystems/stepper/ramp"
	"github.com/GermanBionicSystems/stepper/sequencer"
	"github.com/GermanBionicSystems/stepper/stspin220"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrInvalid is returned for a configuration that fails validation.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrUnknownPin is returned when a pin name cannot be resolved.
	ErrUnknownPin = errors.New("config: unknown pin")
)

// Driver kinds.
const (
	DQ542MA   = "dq542ma"
	DRV8825   = "drv8825"
	STSPIN220 = "stspin220"
	Sequencer = "sequencer"
)

// Profile kinds.
const (
	Trapezoidal = "trapezoidal"
	Constant    = "constant"
)

// Config describes one motor.
type Config struct {
	Driver string `yaml:"driver"`
	Pins   Pins   `yaml:"pins"`
	// StepMode is "full", "1/16" or "16". Empty keeps the driver's mode.
	StepMode string `yaml:"step_mode"`
	// Sequence is the sequencer firing sequence.
	Sequence Sequence `yaml:"sequence"`
	// PulseLength is how long a sequencer holds each pattern.
	PulseLength time.Duration `yaml:"pulse_length"`
	// TickRate is the timer resolution, like "1MHz".
	TickRate string  `yaml:"tick_rate"`
	Profile  Profile `yaml:"profile"`
}

// Pins names the pins, as understood by gpioreg.ByName.
type Pins struct {
	Dir  string `yaml:"dir"`
	Step string `yaml:"step"`
	// Reset is the DRV8825 nRESET line.
	Reset string `yaml:"reset"`
	// Mode0 is the DRV8825 MODE0 line.
	Mode0 string `yaml:"mode0"`
	// Mode1 and Mode2 are used by both the DRV8825 and the STSPIN220.
	Mode1 string `yaml:"mode1"`
	Mode2 string `yaml:"mode2"`
	// StandbyReset is the STSPIN220 STBY/RESET line.
	StandbyReset string `yaml:"standby_reset"`
	// Lines are the sequencer winding lines.
	Lines []string `yaml:"lines"`
}

// Profile selects the motion profile.
type Profile struct {
	Kind string `yaml:"kind"`
	// Acceleration is in steps per second squared.
	Acceleration float64 `yaml:"acceleration"`
	// MaxVelocity is in steps per second.
	MaxVelocity float64 `yaml:"max_velocity"`
}

// Sequence is a firing sequence, given either as a list of patterns or as
// the name of a sequencer preset.
type Sequence []uint8

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Sequence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p, ok := sequencer.Preset(value.Value)
		if !ok {
			return fmt.Errorf("line %d: unknown sequence preset %q", value.Line, value.Value)
		}
		*s = p
		return nil
	}
	var v []uint8
	if err := value.Decode(&v); err != nil {
		return err
	}
	*s = v
	return nil
}

// Default returns the configuration that Parse starts from.
func Default() *Config {
	return &Config{
		TickRate: "1MHz",
		Profile: Profile{
			Kind:         Trapezoidal,
			Acceleration: 800,
			MaxVelocity:  400,
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a configuration. Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a usable motor.
func (c *Config) Validate() error {
	invalid := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
	}
	switch c.Driver {
	case DQ542MA, DRV8825, STSPIN220:
		if c.Pins.Dir == "" || c.Pins.Step == "" {
			return invalid("%s needs dir and step pins", c.Driver)
		}
		if len(c.Pins.Lines) != 0 || len(c.Sequence) != 0 {
			return invalid("%s has no winding lines", c.Driver)
		}
	case Sequencer:
		if len(c.Pins.Lines) == 0 || len(c.Sequence) == 0 {
			return invalid("sequencer needs lines and a sequence")
		}
		if c.Pins.Dir != "" || c.Pins.Step != "" {
			return invalid("sequencer has no dir or step pin")
		}
	case "":
		return invalid("driver is required")
	default:
		return invalid("unknown driver %q", c.Driver)
	}
	if c.StepMode != "" {
		if !c.hasModePins() {
			return invalid("step_mode needs the %s mode pins", c.Driver)
		}
		m, err := stepper.ParseStepMode(c.StepMode)
		if err != nil {
			return invalid("step_mode: %v", err)
		}
		if !driverSupports(c.Driver, m) {
			return invalid("%s has no %s step mode", c.Driver, m)
		}
	}
	if c.PulseLength < 0 {
		return invalid("negative pulse_length")
	}
	var f physic.Frequency
	if err := f.Set(c.TickRate); err != nil {
		return invalid("tick_rate: %v", err)
	}
	if f <= 0 {
		return invalid("tick_rate must be positive")
	}
	switch c.Profile.Kind {
	case Trapezoidal, Constant:
	default:
		return invalid("unknown profile kind %q", c.Profile.Kind)
	}
	if !(c.Profile.MaxVelocity > 0) {
		return invalid("profile max_velocity must be positive")
	}
	if c.Profile.Acceleration < 0 {
		return invalid("profile acceleration must not be negative")
	}
	// The first and last steps of a ramp are the slowest.
	slowest := c.Profile.MaxVelocity
	if c.Profile.Kind == Trapezoidal && c.Profile.Acceleration > 0 {
		slowest = math.Min(slowest, math.Sqrt(2*c.Profile.Acceleration))
	}
	if ticks, err := hosttimer.Ticks(ramp.Delay(slowest), f); err != nil || ticks > hosttimer.MaxTicks {
		return invalid("tick_rate %s cannot time steps at %g steps/s", f, slowest)
	}
	return nil
}

func driverSupports(driver string, m stepper.StepMode) bool {
	switch driver {
	case DRV8825:
		return drv8825.Supports(m)
	case STSPIN220:
		return stspin220.Supports(m)
	}
	return false
}

// hasModePins reports whether every mode pin of the driver is named.
func (c *Config) hasModePins() bool {
	p := c.Pins
	switch c.Driver {
	case DRV8825:
		return p.Reset != "" && p.Mode0 != "" && p.Mode1 != "" && p.Mode2 != ""
	case STSPIN220:
		return p.StandbyReset != "" && p.Mode1 != "" && p.Mode2 != ""
	default:
		return false
	}
}
