// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic

import (
	"errors"
	"fmt"
	"math"

	"github.com/GermanBionicSystems/stepper"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// I2CAddr is the default I²C address for the Tic.
const I2CAddr uint16 = 0x0E

// MaxSpeed is the highest speed the Tic accepts, in steps per second.
const MaxSpeed = 50000

var (
	// ErrConnectionFailed is returned when the driver fails to connect.
	ErrConnectionFailed = errors.New("failed to connect to Tic")

	// ErrInvalidSetting is returned when you provide an invalid value.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrMotorError is returned by Update when the Tic stopped moving because
	// of an error condition.
	ErrMotorError = errors.New("tic: motor stopped on error")
)

// Variant represents the specific Tic controller variant.
type Variant string

const (
	TicT825 Variant = "Tic T825"
	TicT834 Variant = "Tic T834"
	TicT500 Variant = "Tic T500"
	TicT249 Variant = "Tic T249"
	Tic36v4 Variant = "Tic 36v4"
)

// maxStepMode returns the finest step mode of the variant.
func (v Variant) maxStepMode() stepper.StepMode {
	switch v {
	case TicT500:
		return stepper.M8
	case Tic36v4:
		return stepper.M256
	default:
		return stepper.M32
	}
}

// stepModeCodes maps step modes to the Tic's encoding.
var stepModeCodes = map[stepper.StepMode]uint8{
	stepper.Full: 0,
	stepper.M2:   1,
	stepper.M4:   2,
	stepper.M8:   3,
	stepper.M16:  4,
	stepper.M32:  5,
	stepper.M64:  7,
	stepper.M128: 8,
	stepper.M256: 9,
}

// PlanningMode is what the Tic's step generation is doing.
type PlanningMode uint8

const (
	PlanningModeOff            PlanningMode = 0
	PlanningModeTargetPosition PlanningMode = 1
	PlanningModeTargetVelocity PlanningMode = 2
)

// OperationState is the Tic's operation state.
type OperationState uint8

const (
	OperationStateReset             OperationState = 0
	OperationStateDeenergized       OperationState = 2
	OperationStateSoftError         OperationState = 4
	OperationStateWaitingForErrLine OperationState = 6
	OperationStateStartingUp        OperationState = 8
	OperationStateNormal            OperationState = 10
)

// Dev is a handle to a Tic motor controller.
//
// Dev is a stepper.MotionController: positions are in microsteps of the
// current step mode and velocities in microsteps per second.
type Dev struct {
	c       conn.Conn
	variant Variant
	target  int32
	moving  bool
}

// NewI2C returns an object that communicates with a Tic motor controller over
// I²C.
//
// The default address is tic.I2CAddr.
func NewI2C(b i2c.Bus, variant Variant, addr uint16) (*Dev, error) {
	switch variant {
	case TicT825, TicT834, TicT500, TicT249, Tic36v4:
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", ErrInvalidSetting, variant)
	}
	d := &Dev{c: &i2c.Dev{Bus: b, Addr: addr}, variant: variant}
	if _, err := d.StepMode(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return d, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return string(d.variant)
}

// Halt stops the motor abruptly without respecting the deceleration limit.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	d.moving = false
	return d.commandQuick(cmdHaltAndHold)
}

// MoveToPosition implements stepper.MotionController.
//
// It sets the maximum speed then the target position. The Tic plans the
// acceleration itself, using the limits set with SetMaxAccel and
// SetMaxDecel.
func (d *Dev) MoveToPosition(maxVelocity float64, target int32) error {
	if d.moving {
		return stepper.ErrBusy
	}
	if math.IsNaN(maxVelocity) || maxVelocity <= 0 || maxVelocity > MaxSpeed {
		return fmt.Errorf("%w: speed %g steps/s", ErrInvalidSetting, maxVelocity)
	}
	// The Tic counts speed in steps per 10000 seconds.
	if err := d.commandW32(cmdSetSpeedMax, uint32(math.Round(maxVelocity*10000))); err != nil {
		return err
	}
	if err := d.commandW32(cmdSetTargetPosition, uint32(target)); err != nil {
		return err
	}
	d.target = target
	d.moving = true
	return nil
}

// ResetPosition implements stepper.MotionController by sending "Halt and set
// position".
func (d *Dev) ResetPosition(step int32) error {
	if d.moving {
		return stepper.ErrBusy
	}
	return d.commandW32(cmdHaltAndSetPosition, uint32(step))
}

// Update implements stepper.MotionController.
//
// It keeps the Tic's command timeout from expiring and reports the move as
// finished once the Tic reached the target. A move stopped by a Tic error is
// finished with ErrMotorError.
//
// A bus error also ends the move on the host side. The Tic may still be
// heading to the target; Halt stops it.
func (d *Dev) Update() (bool, error) {
	if !d.moving {
		return false, nil
	}
	if err := d.commandQuick(cmdResetCommandTimeout); err != nil {
		return d.abort(err)
	}
	status, err := d.getVar16(offsetErrorStatus)
	if err != nil {
		return d.abort(err)
	}
	if status != 0 {
		return d.abort(fmt.Errorf("%w: error status %#04x", ErrMotorError, status))
	}
	pos, err := d.CurrentPosition()
	if err != nil {
		return d.abort(err)
	}
	if pos != d.target {
		return true, nil
	}
	d.moving = false
	return false, nil
}

func (d *Dev) abort(err error) (bool, error) {
	d.moving = false
	return false, err
}

// Busy reports whether a move is in flight.
func (d *Dev) Busy() bool {
	return d.moving
}

// CurrentPosition returns the position the Tic has commanded, in
// microsteps.
func (d *Dev) CurrentPosition() (int32, error) {
	v, err := d.getVar32(offsetCurrentPosition)
	return int32(v), err
}

// CurrentVelocity returns the planned velocity, in microsteps per second.
func (d *Dev) CurrentVelocity() (float64, error) {
	v, err := d.getVar32(offsetCurrentVelocity)
	return float64(int32(v)) / 10000, err
}

// PlanningMode returns what the Tic's step generation is doing.
func (d *Dev) PlanningMode() (PlanningMode, error) {
	v, err := d.getVar8(offsetPlanningMode)
	return PlanningMode(v), err
}

// OperationState returns the Tic's operation state.
func (d *Dev) OperationState() (OperationState, error) {
	v, err := d.getVar8(offsetOperationState)
	return OperationState(v), err
}

// SetMaxAccel sets the maximum acceleration, in steps per second squared.
func (d *Dev) SetMaxAccel(accel float64) error {
	return d.setAccel(cmdSetAccelMax, accel)
}

// SetMaxDecel sets the maximum deceleration, in steps per second squared.
func (d *Dev) SetMaxDecel(decel float64) error {
	return d.setAccel(cmdSetDecelMax, decel)
}

func (d *Dev) setAccel(cmd command, v float64) error {
	// The Tic counts acceleration in steps per second per 100 seconds.
	const minAccel, maxAccel = 0.01, 21474836.47
	if math.IsNaN(v) || v < minAccel || v > maxAccel {
		return fmt.Errorf("%w: acceleration %g steps/s²", ErrInvalidSetting, v)
	}
	return d.commandW32(cmd, uint32(math.Round(v*100)))
}

// StepMode returns the current step mode.
func (d *Dev) StepMode() (stepper.StepMode, error) {
	v, err := d.getVar8(offsetStepMode)
	if err != nil {
		return 0, err
	}
	for m, code := range stepModeCodes {
		if code == v {
			return m, nil
		}
	}
	if v == 6 {
		// 1/2 step at 100% current, Tic T249 only.
		return stepper.M2, nil
	}
	return 0, fmt.Errorf("%w: step mode code %d", ErrInvalidSetting, v)
}

// SetStepMode sets the step mode.
func (d *Dev) SetStepMode(mode stepper.StepMode) error {
	code, ok := stepModeCodes[mode]
	if !ok || mode > d.variant.maxStepMode() {
		return fmt.Errorf("%w: %s has no %s mode", stepper.ErrUnsupportedStepMode, d.variant, mode)
	}
	return d.commandW7(cmdSetStepMode, code)
}

// Energize enables the motor driver.
func (d *Dev) Energize() error {
	return d.commandQuick(cmdEnergize)
}

// ExitSafeStart clears the safe start violation for 200 ms.
func (d *Dev) ExitSafeStart() error {
	return d.commandQuick(cmdExitSafeStart)
}

// ReleaseCoils implements stepper.CoilReleaser by de-energizing the motor.
// The Tic keeps its position but flags it as uncertain.
func (d *Dev) ReleaseCoils() error {
	d.moving = false
	return d.commandQuick(cmdDeenergize)
}

var (
	_ conn.Resource            = &Dev{}
	_ fmt.Stringer             = &Dev{}
	_ stepper.MotionController = &Dev{}
	_ stepper.CoilReleaser     = &Dev{}
)
