// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package drv8825 controls a Texas Instruments DRV8825 stepper driver.
//
// The STEP, DIR and microstepping lines (nRESET, MODE0, MODE1, MODE2) are
// attached independently, in any order. Step modes from full step to 1/32
// are supported.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/drv8825.pdf
package drv8825
