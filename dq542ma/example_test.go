// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dq542ma_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/dq542ma"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"github.com/GermanBionicSystems/stepper/motion"
	"github.com/GermanBionicSystems/stepper/ramp"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	d := dq542ma.New().
		EnableDirectionControl(gpioreg.ByName("GPIO27")).
		EnableStepControl(gpioreg.ByName("GPIO17"))

	timer, err := hosttimer.New(physic.MegaHertz)
	if err != nil {
		log.Fatal(err)
	}

	// Accelerate at 1000 steps/s² up to 2000 steps/s.
	c := motion.New(d, timer, ramp.NewTrapezoidal(1000), nil)
	if err := stepper.MoveToPosition(c, 2000, 6400).Await(context.Background()); err != nil {
		log.Fatal(err)
	}
	log.Printf("at step %d", c.CurrentStep())
}
