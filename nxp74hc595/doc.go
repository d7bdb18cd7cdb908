// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nxp74hc595 exposes the outputs of a 74HC595 shift register as
// stepper control lines.
//
// A single 74HC595 on an SPI bus drives the windings of two four line
// unipolar motors through a ULN2003, or the STEP and DIR inputs of several
// drivers. Every output is a gpio.PinOut usable by the sequencer and the
// STEP/DIR drivers.
//
// # Datasheet
//
// https://www.nexperia.com/product/74HC595D
package nxp74hc595
