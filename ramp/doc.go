// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ramp implements motion profiles for package motion.
//
// A profile is set up for a move of a number of steps at a peak velocity,
// then hands out the delay to hold after each step until the move is done.
// Velocities are in steps per second and accelerations in steps per second
// squared.
package ramp
