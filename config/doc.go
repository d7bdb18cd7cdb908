// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config describes a motor in YAML and builds its driver.
//
// Example:
//
//	driver: drv8825
//	pins:
//	  dir: GPIO27
//	  step: GPIO17
//	  reset: GPIO22
//	  mode0: GPIO5
//	  mode1: GPIO6
//	  mode2: GPIO13
//	step_mode: 1/16
//	tick_rate: 1MHz
//	profile:
//	  kind: trapezoidal
//	  acceleration: 800
//	  max_velocity: 400
//
// A sequencer lists its winding lines and a firing sequence, either as
// numbers or as a preset name:
//
//	driver: sequencer
//	pins:
//	  lines: [GPIO5, GPIO6, GPIO13, GPIO19]
//	sequence: half_step
//	pulse_length: 2ms
package config
