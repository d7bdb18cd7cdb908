// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package motion implements position moves in software for drivers that can
// only select a direction and step.
//
// A Controller owns the driver and a timer. MoveToPosition prepares a move
// and every Update advances it by at most one phase: direction setup, step
// pulse or the delay between steps handed out by the Profile.
//
// While a move is in flight the driver and timer cannot be borrowed and new
// moves are rejected with stepper.ErrBusy.
package motion
