// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nxp74hc595

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// NumOutputs is the number of outputs of one register.
const NumOutputs = 8

var (
	// ErrNotImplemented is returned by PWM.
	ErrNotImplemented = errors.New("nxp74hc595: not implemented")

	// ErrOutOfRange is returned for an output number outside of Q0 to Q7.
	ErrOutOfRange = errors.New("nxp74hc595: output out of range")

	// ErrHalted is returned by writes after Halt.
	ErrHalted = errors.New("nxp74hc595: halted")
)

// Dev is a 74HC595 on an SPI bus. Q0 is the least significant bit of the
// byte shifted out.
type Dev struct {
	mu      sync.Mutex
	conn    spi.Conn
	value   uint8
	sent    bool
	outputs [NumOutputs]Output
}

// New returns a register on conn. Nothing is sent until the first write.
func New(conn spi.Conn) (*Dev, error) {
	d := &Dev{conn: conn}
	for i := range d.outputs {
		d.outputs[i] = Output{dev: d, number: i}
	}
	return d, nil
}

// Output returns output Qn.
func (d *Dev) Output(n int) (*Output, error) {
	if n < 0 || n >= NumOutputs {
		return nil, fmt.Errorf("%w: Q%d", ErrOutOfRange, n)
	}
	return &d.outputs[n], nil
}

// Outputs returns count consecutive outputs starting at Qfirst, ready to be
// passed as winding lines.
func (d *Dev) Outputs(first, count int) ([]gpio.PinOut, error) {
	if first < 0 || count < 0 || first+count > NumOutputs {
		return nil, fmt.Errorf("%w: Q%d to Q%d", ErrOutOfRange, first, first+count-1)
	}
	out := make([]gpio.PinOut, count)
	for i := range out {
		out[i] = &d.outputs[first+i]
	}
	return out, nil
}

// Value returns the byte last shifted out.
func (d *Dev) Value() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// write updates the outputs selected by mask. The register is only written
// when the value changes.
func (d *Dev) write(value, mask uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return ErrHalted
	}
	v := d.value&^mask | value&mask
	if d.sent && v == d.value {
		return nil
	}
	if err := d.conn.Tx([]byte{v}, nil); err != nil {
		return err
	}
	d.value, d.sent = v, true
	return nil
}

// Halt drives every output Low, releasing whatever is attached, and
// detaches the bus.
func (d *Dev) Halt() error {
	err := d.write(0, 0xFF)
	d.mu.Lock()
	d.conn = nil
	d.mu.Unlock()
	return err
}

func (d *Dev) String() string {
	return "74HC595"
}

// Output is one output of the register.
type Output struct {
	dev    *Dev
	number int
}

// Halt implements conn.Resource.
func (o *Output) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (o *Output) Name() string {
	return fmt.Sprintf("74HC595_Q%d", o.number)
}

// Number implements pin.Pin.
func (o *Output) Number() int {
	return o.number
}

// Function implements pin.Pin.
func (o *Output) Function() string {
	return "Out"
}

// Out implements gpio.PinOut.
func (o *Output) Out(l gpio.Level) error {
	mask := uint8(1) << o.number
	var v uint8
	if l {
		v = mask
	}
	return o.dev.write(v, mask)
}

// PWM implements gpio.PinOut. It is not supported.
func (o *Output) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (o *Output) String() string {
	return o.Name()
}

var _ gpio.PinOut = &Output{}
