// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package steptrace_test

import (
	"context"
	"log"
	"os"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/dq542ma"
	"github.com/GermanBionicSystems/stepper/hosttimer"
	"github.com/GermanBionicSystems/stepper/motion"
	"github.com/GermanBionicSystems/stepper/ramp"
	"github.com/GermanBionicSystems/stepper/steptrace"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	tr := steptrace.New(nil)
	d := dq542ma.New().
		EnableDirectionControl(tr.Probe(gpioreg.ByName("GPIO27"))).
		EnableStepControl(tr.Probe(gpioreg.ByName("GPIO17")))
	timer, err := hosttimer.New(physic.MegaHertz)
	if err != nil {
		log.Fatal(err)
	}
	c := motion.New(d, timer, ramp.NewTrapezoidal(2000), nil)
	if err := stepper.MoveToPosition(c, 1000, 50).Await(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Show the signals on the console, then save them as an image.
	if err := tr.Print(nil, 100, nil); err != nil {
		log.Fatal(err)
	}
	f, err := os.Create("trace.png")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := tr.WritePNG(f, nil); err != nil {
		log.Fatal(err)
	}
}
