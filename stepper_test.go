// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/dq542ma"
	"github.com/GermanBionicSystems/stepper/drv8825"
	"github.com/GermanBionicSystems/stepper/sequencer"
	"github.com/GermanBionicSystems/stepper/steptest"
	"github.com/GermanBionicSystems/stepper/stspin220"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

func TestDirection(t *testing.T) {
	if stepper.Forward.Level() != gpio.High || stepper.Backward.Level() != gpio.Low {
		t.Fatal("Forward must be High and Backward Low")
	}
	if stepper.Forward.Reverse() != stepper.Backward || stepper.Backward.Reverse() != stepper.Forward {
		t.Fatal("Reverse")
	}
	if s := stepper.Backward.String(); s != "Backward" {
		t.Fatalf("got %q", s)
	}
}

func TestParseStepMode(t *testing.T) {
	for _, test := range []struct {
		in      string
		want    stepper.StepMode
		wantErr bool
	}{
		{in: "full", want: stepper.Full},
		{in: "Full", want: stepper.Full},
		{in: "1", want: stepper.Full},
		{in: "1/16", want: stepper.M16},
		{in: "256", want: stepper.M256},
		{in: "1/3", wantErr: true},
		{in: "512", wantErr: true},
		{in: "0", wantErr: true},
		{in: "half", wantErr: true},
	} {
		t.Run(test.in, func(t *testing.T) {
			got, err := stepper.ParseStepMode(test.in)
			if test.wantErr {
				if !errors.Is(err, stepper.ErrUnsupportedStepMode) {
					t.Fatalf("expected unsupported step mode, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Fatalf("wanted: %s, got: %s", test.want, got)
			}
		})
	}
	if s := stepper.M32.String(); s != "1/32" {
		t.Fatalf("got %q", s)
	}
}

func TestPinAction(t *testing.T) {
	if !stepper.NoOp.IsNoOp() {
		t.Fatal("NoOp")
	}
	if err := stepper.NoOp.Apply(); err != nil {
		t.Fatal(err)
	}
	var rec steptest.Recorder
	p := rec.Pin("P")
	a := stepper.SetLevel(p, gpio.High)
	if a.IsNoOp() {
		t.Fatal("SetLevel is not NoOp")
	}
	if err := a.Apply(); err != nil {
		t.Fatal(err)
	}
	if !p.Level() {
		t.Fatal("expected High")
	}
}

func TestSetDirection(t *testing.T) {
	var rec steptest.Recorder
	d := dq542ma.New().EnableDirectionControl(rec.Pin("DIR"))
	f := stepper.SetDirection(d, stepper.Backward, rec.Timer(2))

	var polls int
	for {
		done, err := f.Poll()
		if err != nil {
			t.Fatal(err)
		}
		polls++
		if done {
			break
		}
	}
	if polls != 4 {
		t.Fatalf("expected 4 polls, got %d", polls)
	}
	if done, err := f.Poll(); !done || err != nil {
		t.Fatalf("finished future must stay finished: %t, %v", done, err)
	}
	want := []steptest.Event{
		steptest.Out("DIR", gpio.Low),
		steptest.Wait(dq542ma.DirectionSetupTime),
	}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if got, _ := f.Release(); got != d {
		t.Fatal("Release must return the driver")
	}
}

func TestStepPulse(t *testing.T) {
	for _, test := range []struct {
		name  string
		build func(step gpio.PinOut) stepper.StepController
		pulse time.Duration
	}{
		{
			name:  "dq542ma",
			build: func(p gpio.PinOut) stepper.StepController { return dq542ma.New().EnableStepControl(p) },
			pulse: dq542ma.PulseLength,
		},
		{
			name:  "drv8825",
			build: func(p gpio.PinOut) stepper.StepController { return drv8825.New().EnableStepControl(p) },
			pulse: drv8825.PulseLength,
		},
		{
			name:  "stspin220",
			build: func(p gpio.PinOut) stepper.StepController { return stspin220.New().EnableStepControl(p) },
			pulse: stspin220.PulseLength,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			var rec steptest.Recorder
			step := rec.Pin("STEP")
			d := test.build(step)
			if err := stepper.Step(d, rec.Timer(3)).Wait(); err != nil {
				t.Fatal(err)
			}
			want := []steptest.Event{
				steptest.Out("STEP", gpio.High),
				steptest.Wait(test.pulse),
				steptest.Out("STEP", gpio.Low),
			}
			if diff := cmp.Diff(want, rec.Events()); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
			if step.Level() != gpio.Low {
				t.Fatal("STEP must be back to its idle level")
			}
		})
	}
}

func TestSetStepMode(t *testing.T) {
	var rec steptest.Recorder
	d := drv8825.New().EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2"))
	if err := stepper.SetStepMode(d, stepper.M16, rec.Timer(1)).Wait(); err != nil {
		t.Fatal(err)
	}
	want := []steptest.Event{
		steptest.Out("RST", gpio.Low),
		steptest.Out("M0", gpio.Low),
		steptest.Out("M1", gpio.Low),
		steptest.Out("M2", gpio.High),
		steptest.Wait(drv8825.ModeSetupTime),
		steptest.Out("RST", gpio.High),
		steptest.Wait(drv8825.ModeHoldTime),
	}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSetStepModeUnsupported(t *testing.T) {
	var rec steptest.Recorder
	d := drv8825.New().EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2"))
	err := stepper.SetStepMode(d, stepper.M64, rec.Timer(0)).Wait()
	if !errors.Is(err, stepper.ErrUnsupportedStepMode) || !stepper.IsKind(err, stepper.KindConfig) {
		t.Fatalf("expected config error, got: %v", err)
	}
	if ev := rec.Events(); len(ev) != 0 {
		t.Fatalf("no pin must be touched, got %v", ev)
	}
}

func TestFailures(t *testing.T) {
	errPin := errors.New("pin broke")
	errTimer := errors.New("timer broke")
	for _, test := range []struct {
		name     string
		pinErr   error
		startErr error
		waitErr  error
		kind     stepper.ErrorKind
		want     error
	}{
		{name: "pin", pinErr: errPin, kind: stepper.KindPin, want: errPin},
		{name: "timer start", startErr: errTimer, kind: stepper.KindTimer, want: errTimer},
		{name: "timer wait", waitErr: errTimer, kind: stepper.KindTimer, want: errTimer},
	} {
		t.Run(test.name, func(t *testing.T) {
			var rec steptest.Recorder
			p := rec.Pin("STEP")
			p.Err = test.pinErr
			timer := rec.Timer(0)
			timer.StartErr = test.startErr
			timer.Err = test.waitErr
			f := stepper.Step(dq542ma.New().EnableStepControl(p), timer)

			err := f.Wait()
			if !errors.Is(err, test.want) || !stepper.IsKind(err, test.kind) {
				t.Fatalf("expected %s error wrapping %v, got: %v", test.kind, test.want, err)
			}
			// A failed operation is terminal.
			p.Err, timer.StartErr, timer.Err = nil, nil, nil
			if done, again := f.Poll(); !done || again != err {
				t.Fatalf("expected the same error again, got: %t, %v", done, again)
			}
		})
	}
}

func TestStepBeforeDirection(t *testing.T) {
	var rec steptest.Recorder
	d, err := sequencer.New([]uint8{0b01, 0b10}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := d.EnableStepControl(rec.Pin("A"), rec.Pin("B"))
	if err != nil {
		t.Fatal(err)
	}
	err = stepper.Step(w, rec.Timer(0)).Wait()
	if !errors.Is(err, sequencer.ErrMustCallEnableDirection) || !stepper.IsKind(err, stepper.KindPinUnavailable) {
		t.Fatalf("expected pin unavailable error, got: %v", err)
	}
	if w.Index() != 0 {
		t.Fatalf("index must not move, got %d", w.Index())
	}
}

func TestAwaitCanceled(t *testing.T) {
	var rec steptest.Recorder
	step := rec.Pin("STEP")
	f := stepper.Step(dq542ma.New().EnableStepControl(step), rec.Timer(1000))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got: %v", err)
	}
	// Abandoned mid-pulse: the pin keeps the leading edge level.
	if step.Level() != gpio.High {
		t.Fatal("expected STEP to stay High")
	}
	d, timer := f.Release()
	if d.StepLine() != step || timer == nil {
		t.Fatal("Release must hand back the driver and timer")
	}
}

func TestDelayFromTimer(t *testing.T) {
	var rec steptest.Recorder
	timer := rec.Timer(3)
	if err := stepper.DelayFromTimer(timer).Delay(context.Background(), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]time.Duration{time.Millisecond}, timer.Started); diff != "" {
		t.Fatalf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestReleaseCoils(t *testing.T) {
	var rec steptest.Recorder
	d, err := sequencer.New([]uint8{1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := rec.Pin("A")
	w, err := d.EnableStepControl(p)
	if err != nil {
		t.Fatal(err)
	}
	p.Err = errors.New("gone")
	if err := stepper.ReleaseCoils(w); !stepper.IsKind(err, stepper.KindPin) {
		t.Fatalf("expected pin error, got: %v", err)
	}
}

func TestSignalError(t *testing.T) {
	err := &stepper.SignalError{Kind: stepper.KindTimer, Op: "step", Err: errors.New("boom")}
	if got := err.Error(); got != "stepper: step: timer error: boom" {
		t.Fatalf("got %q", got)
	}
	if stepper.IsKind(errors.New("plain"), stepper.KindTimer) {
		t.Fatal("plain errors have no kind")
	}
}
