// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package steptest provides pins and timers to test code using package
// stepper without hardware.
//
// Pins and timers created from the same Recorder append to one ordered
// event log, so tests can check both levels and the timing between them.
package steptest
