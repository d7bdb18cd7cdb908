// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hosttimer implements stepper timers and delays on the host clock.
//
// Countdowns are rounded up to a whole number of ticks of a fixed tick rate,
// so a countdown never ends before the requested duration.
package hosttimer
