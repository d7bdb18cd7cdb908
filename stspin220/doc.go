// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stspin220 controls an ST STSPIN220 low voltage stepper driver.
//
// The chip latches its microstepping resolution from MODE1 to MODE4 when it
// leaves standby. MODE3 and MODE4 share the STEP and DIR inputs, so step mode
// control can only be enabled once both STEP and DIR are attached. Step modes
// from full step to 1/256 are supported.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/stspin220.pdf
package stspin220
