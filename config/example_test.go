// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/config"
	"go.uber.org/zap"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load("motor.yaml")
	if err != nil {
		log.Fatal(err)
	}
	m, err := cfg.Open(nil)
	if err != nil {
		log.Fatal(err)
	}
	timer, err := m.Timer()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Configure(ctx, timer); err != nil {
		log.Fatal(err)
	}
	c := m.Controller(timer, zap.NewExample())
	if err := stepper.MoveToPosition(c, m.MaxVelocity, 200).Await(ctx); err != nil {
		log.Fatal(err)
	}
}
