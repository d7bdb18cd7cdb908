// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package drv8825

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/stepper"
	"github.com/GermanBionicSystems/stepper/steptest"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

const (
	L = gpio.Low
	H = gpio.High
)

func TestApplyModeConfig(t *testing.T) {
	for _, test := range []struct {
		mode       stepper.StepMode
		m0, m1, m2 gpio.Level
	}{
		{stepper.Full, L, L, L},
		{stepper.M2, H, L, L},
		{stepper.M4, L, H, L},
		{stepper.M8, H, H, L},
		{stepper.M16, L, L, H},
		{stepper.M32, H, L, H},
	} {
		t.Run(test.mode.String(), func(t *testing.T) {
			var rec steptest.Recorder
			d := New().EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2"))
			if err := d.ApplyModeConfig(test.mode); err != nil {
				t.Fatal(err)
			}
			if err := d.EnableDriver(); err != nil {
				t.Fatal(err)
			}
			want := []steptest.Event{
				steptest.Out("RST", L),
				steptest.Out("M0", test.m0),
				steptest.Out("M1", test.m1),
				steptest.Out("M2", test.m2),
				steptest.Out("RST", H),
			}
			if diff := cmp.Diff(want, rec.Events()); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyModeConfigUnsupported(t *testing.T) {
	for _, mode := range []stepper.StepMode{stepper.M64, stepper.M128, stepper.M256} {
		var rec steptest.Recorder
		d := New().EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2"))
		if err := d.ApplyModeConfig(mode); !errors.Is(err, stepper.ErrUnsupportedStepMode) {
			t.Fatalf("%s: expected ErrUnsupportedStepMode, got: %v", mode, err)
		}
		if ev := rec.Events(); len(ev) != 0 {
			t.Fatalf("%s: no pin must be touched, got %v", mode, ev)
		}
	}
}

func TestApplyModeConfigPinError(t *testing.T) {
	var rec steptest.Recorder
	m1 := rec.Pin("M1")
	m1.Err = errors.New("broken")
	d := New().EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), m1, rec.Pin("M2"))
	if err := d.ApplyModeConfig(stepper.M4); !errors.Is(err, m1.Err) {
		t.Fatalf("got: %v", err)
	}
}

func TestSupports(t *testing.T) {
	for m := stepper.Full; m <= stepper.M256; m <<= 1 {
		if got, want := Supports(m), m <= stepper.M32; got != want {
			t.Fatalf("Supports(%s): wanted %t, got %t", m, want, got)
		}
	}
}

func TestTimings(t *testing.T) {
	var rec steptest.Recorder
	d := New().
		EnableStepModeControl(rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2")).
		EnableDirectionControl(rec.Pin("DIR")).
		EnableStepControl(rec.Pin("STEP"))
	got := []interface{}{d.ModeSetupTime(), d.ModeHoldTime(), d.DirectionSetupTime(), d.PulseLength()}
	want := []interface{}{ModeSetupTime, ModeHoldTime, DirectionSetupTime, PulseLength}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("timings mismatch (-want +got):\n%s", diff)
	}
}

func TestEnableOrder(t *testing.T) {
	var rec steptest.Recorder
	rst, m0, m1, m2 := rec.Pin("RST"), rec.Pin("M0"), rec.Pin("M1"), rec.Pin("M2")
	dir, step := rec.Pin("DIR"), rec.Pin("STEP")
	all := Pins{Reset: rst, Mode0: m0, Mode1: m1, Mode2: m2, Dir: dir, Step: step}
	for _, test := range []struct {
		name string
		got  Pins
		want Pins
	}{
		{
			name: "mode",
			got:  New().EnableStepModeControl(rst, m0, m1, m2).Release(),
			want: Pins{Reset: rst, Mode0: m0, Mode1: m1, Mode2: m2},
		},
		{
			name: "dir",
			got:  New().EnableDirectionControl(dir).Release(),
			want: Pins{Dir: dir},
		},
		{
			name: "step",
			got:  New().EnableStepControl(step).Release(),
			want: Pins{Step: step},
		},
		{
			name: "mode dir",
			got:  New().EnableDirectionControl(dir).EnableStepModeControl(rst, m0, m1, m2).Release(),
			want: Pins{Reset: rst, Mode0: m0, Mode1: m1, Mode2: m2, Dir: dir},
		},
		{
			name: "mode step",
			got:  New().EnableStepControl(step).EnableStepModeControl(rst, m0, m1, m2).Release(),
			want: Pins{Reset: rst, Mode0: m0, Mode1: m1, Mode2: m2, Step: step},
		},
		{
			name: "dir step",
			got:  New().EnableStepControl(step).EnableDirectionControl(dir).Release(),
			want: Pins{Dir: dir, Step: step},
		},
		{
			name: "mode dir step",
			got:  New().EnableStepModeControl(rst, m0, m1, m2).EnableDirectionControl(dir).EnableStepControl(step).Release(),
			want: all,
		},
		{
			name: "step dir mode",
			got:  New().EnableStepControl(step).EnableDirectionControl(dir).EnableStepModeControl(rst, m0, m1, m2).Release(),
			want: all,
		},
		{
			name: "dir mode step",
			got:  New().EnableDirectionControl(dir).EnableStepModeControl(rst, m0, m1, m2).EnableStepControl(step).Release(),
			want: all,
		},
		{
			name: "step mode dir",
			got:  New().EnableStepControl(step).EnableStepModeControl(rst, m0, m1, m2).EnableDirectionControl(dir).Release(),
			want: all,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if test.got != test.want {
				t.Fatalf("wanted %+v, got %+v", test.want, test.got)
			}
		})
	}
}

func TestString(t *testing.T) {
	if s := New().String(); s != "DRV8825" {
		t.Fatal(s)
	}
}
