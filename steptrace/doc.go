// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package steptrace records the signals a driver produces, like a logic
// analyzer on the control lines.
//
// Wrap each pin with Trace.Probe before handing it to a driver. Every level
// change is timestamped on the trace's clock. Pulse widths can then be
// checked against a datasheet, and the waveforms rendered as an image or on
// the terminal.
package steptrace
