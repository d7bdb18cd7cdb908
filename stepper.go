// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import "time"

// DirectionController is implemented by drivers that can select the rotation
// direction.
type DirectionController interface {
	// DirectionSetupTime is how long the direction signal must be stable
	// before the next step.
	DirectionSetupTime() time.Duration
	// Dir returns the action that selects d. It performs no I/O itself.
	Dir(d Direction) (PinAction, error)
}

// StepModeController is implemented by drivers with microstepping mode
// pins.
//
// Changing the mode is done in two phases: ApplyModeConfig puts the chip in
// reset or standby and drives the mode pins, EnableDriver releases it once
// ModeSetupTime has elapsed. The mode pins must then stay stable for
// ModeHoldTime.
type StepModeController interface {
	ModeSetupTime() time.Duration
	ModeHoldTime() time.Duration
	ApplyModeConfig(m StepMode) error
	EnableDriver() error
}

// StepController is implemented by drivers that can take a single step.
//
// A step is the leading edge actions, a wait of PulseLength, then the
// trailing edge actions.
type StepController interface {
	PulseLength() time.Duration
	StepLeading() ([]PinAction, error)
	StepTrailing() ([]PinAction, error)
}

// CoilReleaser is implemented by drivers that can de-energize the motor
// windings without losing track of the position.
type CoilReleaser interface {
	ReleaseCoils() error
}

// MotionController is implemented by anything that moves the motor to an
// absolute position on its own, either natively or in software.
type MotionController interface {
	// MoveToPosition starts a move to target, at up to maxVelocity steps
	// per second. It does not block; the move progresses through Update.
	MoveToPosition(maxVelocity float64, target int32) error
	// ResetPosition overwrites the current position without moving.
	ResetPosition(step int32) error
	// Update advances the motion and reports whether it is still going.
	// An error ends the move: Update returns false with it and the
	// controller accepts MoveToPosition and ResetPosition again.
	Update() (bool, error)
}

// ReleaseCoils de-energizes the windings of d.
func ReleaseCoils(d CoilReleaser) error {
	if err := d.ReleaseCoils(); err != nil {
		return &SignalError{Kind: KindPin, Op: "release coils", Err: err}
	}
	return nil
}
