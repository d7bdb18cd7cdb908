// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepper drives stepper motors by toggling periph.io output pins in
// precisely timed sequences.
//
// Drivers for specific chips live in sub-packages (dq542ma, drv8825,
// stspin220, sequencer). Each one starts out without any capability and gains
// one every time a pin resource is handed to it through an Enable method, so
// an operation whose pins were never supplied does not exist on the value.
//
// The timed operations (SetDirection, SetStepMode, Step, MoveToPosition) are
// small state machines. Poll advances one phase without blocking; Wait drives
// one to completion in a busy loop and Await parks between phases and honors
// context cancellation.
//
// Software motion control on top of any STEP/DIR capable driver is provided by
// package motion, with profiles in package ramp.
package stepper
