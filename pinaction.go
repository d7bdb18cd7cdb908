// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// PinAction is what a signaling operation has to do to one pin.
//
// The zero value is NoOp.
type PinAction struct {
	Pin   gpio.PinOut
	Level gpio.Level
}

// NoOp leaves every pin untouched. It is returned by drivers that track a
// signal in software instead of on a pin.
var NoOp = PinAction{}

// SetLevel returns the action driving p to l.
func SetLevel(p gpio.PinOut, l gpio.Level) PinAction {
	return PinAction{Pin: p, Level: l}
}

// IsNoOp reports whether a does nothing.
func (a PinAction) IsNoOp() bool {
	return a.Pin == nil
}

// Apply performs the action.
func (a PinAction) Apply() error {
	if a.Pin == nil {
		return nil
	}
	return a.Pin.Out(a.Level)
}

func (a PinAction) String() string {
	if a.Pin == nil {
		return "NoOp"
	}
	return fmt.Sprintf("%s=%s", a.Pin, a.Level)
}

// applyAll performs the actions in order and stops at the first failure.
func applyAll(actions []PinAction) error {
	for _, a := range actions {
		if err := a.Apply(); err != nil {
			return err
		}
	}
	return nil
}
