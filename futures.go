// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"context"
	"errors"
	"time"
)

// SetDirectionFuture selects a direction, then holds it for the driver's
// setup time.
type SetDirectionFuture[D DirectionController] struct {
	phase
	driver    D
	direction Direction
	waiting   bool
}

// SetDirection returns the operation selecting direction on driver. Nothing
// happens until it is polled.
func SetDirection[D DirectionController](driver D, direction Direction, timer Timer) *SetDirectionFuture[D] {
	return &SetDirectionFuture[D]{
		phase:     phase{timer: timer, op: "set direction"},
		driver:    driver,
		direction: direction,
	}
}

// Poll implements Future.
func (f *SetDirectionFuture[D]) Poll() (bool, error) {
	if f.done {
		return true, f.err
	}
	if !f.waiting {
		a, err := f.driver.Dir(f.direction)
		if err != nil {
			return f.fail(KindPinUnavailable, err)
		}
		if err := a.Apply(); err != nil {
			return f.fail(KindPin, err)
		}
		if err := f.start(f.driver.DirectionSetupTime()); err != nil {
			return f.finish(err)
		}
		f.waiting = true
		return false, nil
	}
	ok, err := f.elapsed()
	if err != nil || ok {
		return f.finish(err)
	}
	return false, nil
}

// Wait polls the operation to completion in a busy loop.
func (f *SetDirectionFuture[D]) Wait() error {
	return Wait(f)
}

// Await drives the operation to completion, parking between phases.
func (f *SetDirectionFuture[D]) Await(ctx context.Context) error {
	return Await(ctx, f)
}

// Release returns the driver and the timer. Pins keep the levels of the last
// completed phase.
func (f *SetDirectionFuture[D]) Release() (D, Timer) {
	return f.driver, f.timer
}

type modeState uint8

const (
	modeInitial modeState = iota
	modeApplying
	modeEnabling
)

// SetStepModeFuture applies a step mode: mode pins and reset, setup time,
// driver enable, then hold time.
type SetStepModeFuture[D StepModeController] struct {
	phase
	driver D
	mode   StepMode
	state  modeState
}

// SetStepMode returns the operation switching driver to mode.
func SetStepMode[D StepModeController](driver D, mode StepMode, timer Timer) *SetStepModeFuture[D] {
	return &SetStepModeFuture[D]{
		phase:  phase{timer: timer, op: "set step mode"},
		driver: driver,
		mode:   mode,
	}
}

// Poll implements Future.
func (f *SetStepModeFuture[D]) Poll() (bool, error) {
	if f.done {
		return true, f.err
	}
	switch f.state {
	case modeInitial:
		if err := f.driver.ApplyModeConfig(f.mode); err != nil {
			if errors.Is(err, ErrUnsupportedStepMode) {
				return f.fail(KindConfig, err)
			}
			return f.fail(KindPin, err)
		}
		if err := f.start(f.driver.ModeSetupTime()); err != nil {
			return f.finish(err)
		}
		f.state = modeApplying
		return false, nil
	case modeApplying:
		ok, err := f.elapsed()
		if err != nil {
			return f.finish(err)
		}
		if !ok {
			return false, nil
		}
		if err := f.driver.EnableDriver(); err != nil {
			return f.fail(KindPin, err)
		}
		if err := f.start(f.driver.ModeHoldTime()); err != nil {
			return f.finish(err)
		}
		f.state = modeEnabling
		return false, nil
	default:
		ok, err := f.elapsed()
		if err != nil || ok {
			return f.finish(err)
		}
		return false, nil
	}
}

// Wait polls the operation to completion in a busy loop.
func (f *SetStepModeFuture[D]) Wait() error {
	return Wait(f)
}

// Await drives the operation to completion, parking between phases.
func (f *SetStepModeFuture[D]) Await(ctx context.Context) error {
	return Await(ctx, f)
}

// Release returns the driver and the timer.
func (f *SetStepModeFuture[D]) Release() (D, Timer) {
	return f.driver, f.timer
}

// StepFuture takes one step: leading edge, pulse length, trailing edge.
//
// The interval until the next step is up to the caller.
type StepFuture[D StepController] struct {
	phase
	driver  D
	pulsing bool
}

// Step returns the operation taking one step with driver.
func Step[D StepController](driver D, timer Timer) *StepFuture[D] {
	return &StepFuture[D]{
		phase:  phase{timer: timer, op: "step"},
		driver: driver,
	}
}

// Poll implements Future.
func (f *StepFuture[D]) Poll() (bool, error) {
	if f.done {
		return true, f.err
	}
	if !f.pulsing {
		actions, err := f.driver.StepLeading()
		if err != nil {
			return f.fail(KindPinUnavailable, err)
		}
		if err := applyAll(actions); err != nil {
			return f.fail(KindPin, err)
		}
		if err := f.start(f.driver.PulseLength()); err != nil {
			return f.finish(err)
		}
		f.pulsing = true
		return false, nil
	}
	ok, err := f.elapsed()
	if err != nil {
		return f.finish(err)
	}
	if !ok {
		return false, nil
	}
	actions, err := f.driver.StepTrailing()
	if err != nil {
		return f.fail(KindPinUnavailable, err)
	}
	if err := applyAll(actions); err != nil {
		return f.fail(KindPin, err)
	}
	return f.finish(nil)
}

// Wait polls the operation to completion in a busy loop.
func (f *StepFuture[D]) Wait() error {
	return Wait(f)
}

// Await drives the operation to completion, parking between phases.
func (f *StepFuture[D]) Await(ctx context.Context) error {
	return Await(ctx, f)
}

// Release returns the driver and the timer.
func (f *StepFuture[D]) Release() (D, Timer) {
	return f.driver, f.timer
}

// MoveToFuture moves a motion controller to an absolute position.
type MoveToFuture[M MotionController] struct {
	controller  M
	maxVelocity float64
	target      int32
	moving      bool
	done        bool
	err         error
}

// MoveToPosition returns the operation moving m to target at up to
// maxVelocity steps per second.
func MoveToPosition[M MotionController](m M, maxVelocity float64, target int32) *MoveToFuture[M] {
	return &MoveToFuture[M]{controller: m, maxVelocity: maxVelocity, target: target}
}

// Poll implements Future.
func (f *MoveToFuture[M]) Poll() (bool, error) {
	if f.done {
		return true, f.err
	}
	if !f.moving {
		if err := f.controller.MoveToPosition(f.maxVelocity, f.target); err != nil {
			return f.finish(err)
		}
		f.moving = true
		return false, nil
	}
	running, err := f.controller.Update()
	if err != nil || !running {
		return f.finish(err)
	}
	return false, nil
}

func (f *MoveToFuture[M]) finish(err error) (bool, error) {
	f.done = true
	f.err = err
	return true, err
}

// Expired implements Notifier when the controller does.
func (f *MoveToFuture[M]) Expired() <-chan time.Time {
	if n, ok := any(f.controller).(Notifier); ok && !f.done {
		return n.Expired()
	}
	return nil
}

// Wait polls the move to completion in a busy loop.
func (f *MoveToFuture[M]) Wait() error {
	return Wait(f)
}

// Await drives the move to completion, parking between steps.
func (f *MoveToFuture[M]) Await(ctx context.Context) error {
	return Await(ctx, f)
}

// Release returns the controller. A move in progress keeps going on the
// next Update.
func (f *MoveToFuture[M]) Release() M {
	return f.controller
}

var (
	_ Future   = &SetDirectionFuture[DirectionController]{}
	_ Future   = &SetStepModeFuture[StepModeController]{}
	_ Future   = &StepFuture[StepController]{}
	_ Future   = &MoveToFuture[MotionController]{}
	_ Notifier = &StepFuture[StepController]{}
	_ Notifier = &MoveToFuture[MotionController]{}
)
