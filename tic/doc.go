// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tic drives a Pololu Tic stepper motor controller over I²C.
//
// The Tic generates the step pulses and acceleration ramps itself, so Dev
// implements stepper.MotionController natively: MoveToPosition sends the
// target, Update polls the position the Tic reports.
//
// # More Details
//
// See https://www.pololu.com/category/212/tic-stepper-motor-controllers for
// more details about the device range.
package tic
