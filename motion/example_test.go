// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motion_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/drv8825"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"github.com/GermanBionicSystems/stepper/motion"
	"github.com/GermanBionicSystems/stepper/ramp"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	d := drv8825.New().
		EnableDirectionControl(gpioreg.ByName("GPIO27")).
		EnableStepControl(gpioreg.ByName("GPIO17"))
	timer, err := hosttimer.New(physic.MegaHertz)
	if err != nil {
		log.Fatal(err)
	}
	c := motion.New(d, timer, ramp.NewTrapezoidal(800), &motion.Opts{Logger: logger})

	// Drive the controller by hand. Other work can run between updates.
	if err := c.MoveToPosition(400, 1600); err != nil {
		log.Fatal(err)
	}
	for {
		running, err := c.Update()
		if err != nil {
			log.Fatal(err)
		}
		if !running {
			break
		}
	}

	// Or let a future drive it.
	if err := stepper.MoveToPosition(c, 400, 0).Await(context.Background()); err != nil {
		log.Fatal(err)
	}
}
