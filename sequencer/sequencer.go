// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sequencer

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrMustCallEnableDirection is returned when stepping before any
	// direction was set.
	ErrMustCallEnableDirection = errors.New("sequencer: direction must be set before stepping")

	// ErrInvalidSequence is returned for an empty sequence or one with
	// patterns wider than the number of lines.
	ErrInvalidSequence = errors.New("sequencer: invalid firing sequence")

	// ErrInvalidLines is returned when the number of lines is not between 1
	// and 8.
	ErrInvalidLines = errors.New("sequencer: need between 1 and 8 lines")

	// ErrIndexOutOfRange is returned by SetIndex.
	ErrIndexOutOfRange = errors.New("sequencer: index out of range")
)

// Firing sequences for four line unipolar motors.
var presets = map[string][]uint8{
	"wave":      {0b1000, 0b0100, 0b0010, 0b0001},
	"full_step": {0b1100, 0b0110, 0b0011, 0b1001},
	"half_step": {0b1000, 0b1100, 0b0100, 0b0110, 0b0010, 0b0011, 0b0001, 0b1001},
}

// Preset returns a copy of a named firing sequence for four lines: "wave",
// "full_step" or "half_step".
func Preset(name string) ([]uint8, bool) {
	s, ok := presets[name]
	if !ok {
		return nil, false
	}
	return append([]uint8(nil), s...), true
}

// Opts holds the sequencer options.
type Opts struct {
	// PulseLength is how long a pattern is held before the step is
	// complete.
	PulseLength time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{}

type state struct {
	sequence     []uint8
	index        int
	direction    stepper.Direction
	hasDirection bool
	pulse        time.Duration
}

// DirectionSetupTime implements stepper.DirectionController.
func (s *state) DirectionSetupTime() time.Duration {
	return 0
}

// Dir implements stepper.DirectionController. The direction is only
// recorded.
func (s *state) Dir(d stepper.Direction) (stepper.PinAction, error) {
	s.direction = d
	s.hasDirection = true
	return stepper.NoOp, nil
}

// Direction returns the direction of the next step, if one was set.
func (s *state) Direction() (stepper.Direction, bool) {
	return s.direction, s.hasDirection
}

// Index returns the sequence index the next step will drive.
func (s *state) Index() int {
	return s.index
}

// SetIndex sets the sequence index the next step will drive.
func (s *state) SetIndex(i int) error {
	if i < 0 || i >= len(s.sequence) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.sequence))
	}
	s.index = i
	return nil
}

func (s *state) advance() {
	n := len(s.sequence)
	if s.direction == stepper.Forward {
		s.index = (s.index + 1) % n
	} else {
		s.index = (s.index + n - 1) % n
	}
}

// Dev is a sequencer without lines.
type Dev struct {
	state
}

// New returns a sequencer running sequence. The sequence is copied.
func New(sequence []uint8, opts *Opts) (*Dev, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Dev{state: state{
		sequence: append([]uint8(nil), sequence...),
		pulse:    opts.PulseLength,
	}}, nil
}

// EnableStepControl attaches the winding lines, the first one driven by the
// most significant bit. d must not be used afterwards.
func (d *Dev) EnableStepControl(lines ...gpio.PinOut) (*WithStep, error) {
	if len(lines) == 0 || len(lines) > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLines, len(lines))
	}
	for i, p := range d.sequence {
		if int(p)>>len(lines) != 0 {
			return nil, fmt.Errorf("%w: entry %d (%#b) needs more than %d lines", ErrInvalidSequence, i, p, len(lines))
		}
	}
	return &WithStep{state: d.state, lines: append([]gpio.PinOut(nil), lines...)}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Sequencer{%d entries}", len(d.sequence))
}

// WithStep is a sequencer with its winding lines attached.
type WithStep struct {
	state
	lines []gpio.PinOut
}

// PulseLength implements stepper.StepController.
func (d *WithStep) PulseLength() time.Duration {
	return d.pulse
}

// StepLeading implements stepper.StepController.
//
// It returns the pattern at the current index and moves the index in the
// current direction.
func (d *WithStep) StepLeading() ([]stepper.PinAction, error) {
	if !d.hasDirection {
		return nil, ErrMustCallEnableDirection
	}
	pattern := d.sequence[d.index]
	n := len(d.lines)
	actions := make([]stepper.PinAction, n)
	for i, p := range d.lines {
		actions[i] = stepper.SetLevel(p, (pattern>>(n-1-i))&1 == 1)
	}
	d.advance()
	return actions, nil
}

// StepTrailing implements stepper.StepController. The lines keep the
// pattern until the next step.
func (d *WithStep) StepTrailing() ([]stepper.PinAction, error) {
	return nil, nil
}

// ReleaseCoils implements stepper.CoilReleaser. The index is kept.
func (d *WithStep) ReleaseCoils() error {
	for _, p := range d.lines {
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// Release returns the attached lines.
func (d *WithStep) Release() []gpio.PinOut {
	return d.lines
}

func (d *WithStep) String() string {
	return fmt.Sprintf("Sequencer{%d entries, %d lines}", len(d.sequence), len(d.lines))
}

var (
	_ stepper.DirectionController = &Dev{}
	_ stepper.DirectionController = &WithStep{}
	_ stepper.StepController      = &WithStep{}
	_ stepper.CoilReleaser        = &WithStep{}
)
