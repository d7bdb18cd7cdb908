// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dq542ma controls a Leadshine DQ542MA stepper driver through its
// PUL (step) and DIR inputs.
//
// Microstepping is selected with DIP switches on the driver and cannot be
// controlled from software.
//
// # Datasheet
//
// https://www.leadshine.com/upfiles/downloads/DQ542MA.pdf
package dq542ma
