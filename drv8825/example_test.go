// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8825_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/drv8825"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	d := drv8825.New().
		EnableStepModeControl(gpioreg.ByName("GPIO22"), gpioreg.ByName("GPIO5"), gpioreg.ByName("GPIO6"), gpioreg.ByName("GPIO13")).
		EnableDirectionControl(gpioreg.ByName("GPIO27")).
		EnableStepControl(gpioreg.ByName("GPIO17"))

	timer, err := hosttimer.New(physic.MegaHertz)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	if err := stepper.SetStepMode(d, stepper.M32, timer).Await(ctx); err != nil {
		log.Fatal(err)
	}
	if err := stepper.SetDirection(d, stepper.Backward, timer).Await(ctx); err != nil {
		log.Fatal(err)
	}
	if err := stepper.Step(d, timer).Await(ctx); err != nil {
		log.Fatal(err)
	}
	log.Printf("pins: %+v", d.Release())
}
