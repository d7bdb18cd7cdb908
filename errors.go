// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a motion is already in progress.
	ErrBusy = errors.New("stepper: motion in progress")

	// ErrWouldBlock is returned by Timer.Wait while the countdown is still
	// running. It is not a failure.
	ErrWouldBlock = errors.New("stepper: timer has not elapsed")

	// ErrUnsupportedStepMode is returned when a driver has no pin
	// configuration for the requested step mode.
	ErrUnsupportedStepMode = errors.New("stepper: unsupported step mode")
)

// ErrorKind classifies a SignalError.
type ErrorKind uint8

const (
	// KindPinUnavailable means the driver could not produce an action, for
	// example because it is missing state it needs.
	KindPinUnavailable ErrorKind = iota + 1
	// KindPin means writing to a pin failed.
	KindPin
	// KindTimer means the timer failed.
	KindTimer
	// KindConfig means the driver rejected the requested configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindPinUnavailable:
		return "pin unavailable"
	case KindPin:
		return "pin"
	case KindTimer:
		return "timer"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// SignalError is returned by the signal state machines.
type SignalError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("stepper: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *SignalError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err wraps a SignalError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var se *SignalError
	return errors.As(err, &se) && se.Kind == k
}
