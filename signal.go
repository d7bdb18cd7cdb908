// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// Future is an operation in flight.
type Future interface {
	// Poll advances the operation by at most one phase without blocking and
	// reports whether it is finished. Once finished, Poll keeps returning
	// true and the same error.
	Poll() (bool, error)
}

// Wait drives f to completion by polling it in a busy loop.
func Wait(f Future) error {
	for {
		if done, err := f.Poll(); done {
			return err
		}
	}
}

// Await drives f to completion. Between polls it parks on f's Notifier
// channel when there is one and yields the processor otherwise.
//
// When ctx is canceled, Await returns ctx.Err() and f is left in its current
// phase. It can be resumed or released.
func Await(ctx context.Context, f Future) error {
	for {
		if done, err := f.Poll(); done {
			return err
		}
		var ch <-chan time.Time
		if n, ok := f.(Notifier); ok {
			ch = n.Expired()
		}
		if ch == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// phase is the timed wait shared by all the signal state machines.
type phase struct {
	timer Timer
	op    string
	done  bool
	err   error
}

func (p *phase) start(d time.Duration) error {
	if err := p.timer.Start(d); err != nil {
		return &SignalError{Kind: KindTimer, Op: p.op, Err: err}
	}
	return nil
}

// elapsed reports whether the running countdown is over.
func (p *phase) elapsed() (bool, error) {
	err := p.timer.Wait()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrWouldBlock):
		return false, nil
	default:
		return false, &SignalError{Kind: KindTimer, Op: p.op, Err: err}
	}
}

func (p *phase) fail(k ErrorKind, err error) (bool, error) {
	return p.finish(&SignalError{Kind: k, Op: p.op, Err: err})
}

func (p *phase) finish(err error) (bool, error) {
	p.done = true
	p.err = err
	return true, err
}

// Expired implements Notifier.
func (p *phase) Expired() <-chan time.Time {
	if p.done {
		return nil
	}
	if n, ok := p.timer.(Notifier); ok {
		return n.Expired()
	}
	return nil
}
