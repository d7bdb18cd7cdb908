// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motion

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"go.uber.org/zap"
)

// ErrInvalidVelocity is returned for a peak velocity that is not a positive
// finite number.
var ErrInvalidVelocity = errors.New("motion: invalid max velocity")

// Profile computes the delays between the steps of a move.
type Profile interface {
	// EnterPositionMode sets the profile up for a move of steps steps at up
	// to maxVelocity steps per second.
	EnterPositionMode(maxVelocity float64, steps uint32)
	// NextDelay returns the delay to hold after the next step, or false when
	// the move is complete.
	NextDelay() (time.Duration, bool)
}

// Driver is what a Controller needs from a driver.
type Driver interface {
	stepper.DirectionController
	stepper.StepController
}

// Opts holds the controller options.
type Opts struct {
	// Logger receives move start, completion and failures. Defaults to a
	// no-op logger.
	Logger *zap.Logger
	// Position is the initial position.
	Position int32
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{}

type state uint8

const (
	stateIdle state = iota
	stateSetDirection
	stateStep
	stateStepDelay
)

// Controller moves a driver to absolute positions.
type Controller[D Driver] struct {
	driver  D
	timer   stepper.Timer
	profile Profile
	logger  *zap.Logger

	state      state
	dirFuture  *stepper.SetDirectionFuture[D]
	stepFuture *stepper.StepFuture[D]
	delay      time.Duration

	pending       bool
	moveDirection stepper.Direction
	target        int32

	position  int32
	direction stepper.Direction
}

// New returns a controller moving driver with profile. The controller owns
// driver and timer from now on.
func New[D Driver](driver D, timer stepper.Timer, profile Profile, opts *Opts) *Controller[D] {
	if opts == nil {
		opts = &DefaultOpts
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[D]{
		driver:   driver,
		timer:    timer,
		profile:  profile,
		logger:   logger,
		position: opts.Position,
		target:   opts.Position,
	}
}

// MoveToPosition implements stepper.MotionController.
//
// A move to the current position completes at once without any pin
// activity.
func (c *Controller[D]) MoveToPosition(maxVelocity float64, target int32) error {
	if c.Busy() {
		return stepper.ErrBusy
	}
	if math.IsNaN(maxVelocity) || math.IsInf(maxVelocity, 0) || maxVelocity <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidVelocity, maxVelocity)
	}
	distance := int64(target) - int64(c.position)
	if distance == 0 {
		c.logger.Debug("already at target", zap.Int32("position", c.position))
		return nil
	}
	dir := stepper.Forward
	if distance < 0 {
		dir = stepper.Backward
		distance = -distance
	}
	c.profile.EnterPositionMode(maxVelocity, uint32(distance))
	c.pending = true
	c.moveDirection = dir
	c.target = target
	c.logger.Debug("move started",
		zap.Int32("from", c.position),
		zap.Int32("to", target),
		zap.Int64("steps", distance),
		zap.Stringer("direction", dir),
		zap.Float64("max_velocity", maxVelocity))
	return nil
}

// ResetPosition implements stepper.MotionController. It fails with
// stepper.ErrBusy during a move.
func (c *Controller[D]) ResetPosition(step int32) error {
	if c.Busy() {
		return stepper.ErrBusy
	}
	c.position = step
	c.target = step
	return nil
}

// Update implements stepper.MotionController.
//
// A failure aborts the move. The position then counts the steps that
// completed.
func (c *Controller[D]) Update() (bool, error) {
	switch c.state {
	case stateIdle:
		if !c.pending {
			return false, nil
		}
		c.pending = false
		c.dirFuture = stepper.SetDirection(c.driver, c.moveDirection, c.timer)
		c.state = stateSetDirection
		return c.pollDirection()
	case stateSetDirection:
		return c.pollDirection()
	case stateStep:
		return c.pollStep()
	default:
		err := c.timer.Wait()
		if errors.Is(err, stepper.ErrWouldBlock) {
			return true, nil
		}
		if err != nil {
			return c.abort(&stepper.SignalError{Kind: stepper.KindTimer, Op: "step delay", Err: err})
		}
		return c.startStep()
	}
}

func (c *Controller[D]) pollDirection() (bool, error) {
	done, err := c.dirFuture.Poll()
	if !done {
		return true, nil
	}
	c.driver, c.timer = c.dirFuture.Release()
	c.dirFuture = nil
	if err != nil {
		return c.abort(err)
	}
	c.direction = c.moveDirection
	return c.startStep()
}

func (c *Controller[D]) startStep() (bool, error) {
	d, ok := c.profile.NextDelay()
	if !ok {
		c.state = stateIdle
		c.logger.Debug("move finished", zap.Int32("position", c.position))
		return false, nil
	}
	c.delay = d
	c.stepFuture = stepper.Step(c.driver, c.timer)
	c.state = stateStep
	return c.pollStep()
}

func (c *Controller[D]) pollStep() (bool, error) {
	done, err := c.stepFuture.Poll()
	if !done {
		return true, nil
	}
	c.driver, c.timer = c.stepFuture.Release()
	c.stepFuture = nil
	if err != nil {
		return c.abort(err)
	}
	if c.direction == stepper.Forward {
		c.position++
	} else {
		c.position--
	}
	if err := c.timer.Start(c.delay); err != nil {
		return c.abort(&stepper.SignalError{Kind: stepper.KindTimer, Op: "step delay", Err: err})
	}
	c.state = stateStepDelay
	return true, nil
}

func (c *Controller[D]) abort(err error) (bool, error) {
	c.state = stateIdle
	c.logger.Warn("move aborted",
		zap.Int32("position", c.position),
		zap.Int32("target", c.target),
		zap.Error(err))
	return false, err
}

// Expired implements stepper.Notifier for the countdown currently running.
func (c *Controller[D]) Expired() <-chan time.Time {
	switch c.state {
	case stateSetDirection:
		return c.dirFuture.Expired()
	case stateStep:
		return c.stepFuture.Expired()
	case stateStepDelay:
		if n, ok := c.timer.(stepper.Notifier); ok {
			return n.Expired()
		}
	}
	return nil
}

// Busy reports whether a move is requested or in flight.
func (c *Controller[D]) Busy() bool {
	return c.pending || c.state != stateIdle
}

// Driver returns the driver for direct use, only while idle.
func (c *Controller[D]) Driver() (D, bool) {
	if c.Busy() {
		var zero D
		return zero, false
	}
	return c.driver, true
}

// Timer returns the timer for direct use, only while idle.
func (c *Controller[D]) Timer() (stepper.Timer, bool) {
	if c.Busy() {
		return nil, false
	}
	return c.timer, true
}

// Profile returns the motion profile.
func (c *Controller[D]) Profile() Profile {
	return c.profile
}

// CurrentStep returns the position.
func (c *Controller[D]) CurrentStep() int32 {
	return c.position
}

// CurrentDirection returns the direction of the last move.
func (c *Controller[D]) CurrentDirection() stepper.Direction {
	return c.direction
}

// Target returns the target of the last move.
func (c *Controller[D]) Target() int32 {
	return c.target
}

var (
	_ stepper.MotionController = &Controller[Driver]{}
	_ stepper.Notifier         = &Controller[Driver]{}
)
