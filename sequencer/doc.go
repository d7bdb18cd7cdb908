// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sequencer drives motor windings directly from a firing sequence,
// as with unipolar motors on a ULN2003 board.
//
// Each entry of the sequence is a bit pattern with one bit per line, the
// most significant of the used bits driving the first line. Every step drives
// the lines to the pattern at the current index, then moves the index one
// entry forward or backward, wrapping at both ends.
//
// There is no direction line: the direction is kept in software and must be
// set before the first step.
package sequencer
