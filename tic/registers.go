// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic

import (
	"encoding/binary"
)

// offset is the position of a variable in the Tic's variable block. See the
// "Variable reference" section of the Tic user's guide.
type offset uint8

const (
	offsetOperationState  offset = 0x00
	offsetErrorStatus     offset = 0x02
	offsetPlanningMode    offset = 0x09
	offsetCurrentPosition offset = 0x22
	offsetCurrentVelocity offset = 0x26
	offsetStepMode        offset = 0x49
)

// command is a Tic command code. See the "Command reference" section of the
// Tic user's guide.
type command uint8

const (
	cmdSetTargetPosition   command = 0xE0
	cmdHaltAndSetPosition  command = 0xEC
	cmdHaltAndHold         command = 0x89
	cmdResetCommandTimeout command = 0x8C
	cmdDeenergize          command = 0x86
	cmdEnergize            command = 0x85
	cmdExitSafeStart       command = 0x83
	cmdSetSpeedMax         command = 0xE6
	cmdSetAccelMax         command = 0xEA
	cmdSetDecelMax         command = 0xE9
	cmdSetStepMode         command = 0x94
	cmdGetVariable         command = 0xA1
)

func (d *Dev) getVar8(o offset) (uint8, error) {
	b, err := d.getSegment(o, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Dev) getVar16(o offset) (uint16, error) {
	b, err := d.getSegment(o, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Dev) getVar32(o offset) (uint32, error) {
	b, err := d.getSegment(o, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// commandQuick sends a command without data.
func (d *Dev) commandQuick(cmd command) error {
	return d.c.Tx([]byte{byte(cmd)}, nil)
}

// commandW7 sends a command with a 7 bit value. The MSB of val is ignored.
func (d *Dev) commandW7(cmd command, val uint8) error {
	return d.c.Tx([]byte{byte(cmd), val & 0x7F}, nil)
}

// commandW32 sends a command with a 32 bit value.
func (d *Dev) commandW32(cmd command, val uint32) error {
	var w [5]byte
	w[0] = byte(cmd)
	binary.LittleEndian.PutUint32(w[1:], val)
	return d.c.Tx(w[:], nil)
}

// getSegment reads length bytes of the variable block starting at o.
func (d *Dev) getSegment(o offset, length int) ([]byte, error) {
	if err := d.c.Tx([]byte{byte(cmdGetVariable), byte(o)}, nil); err != nil {
		return nil, err
	}
	r := make([]byte, length)
	if err := d.c.Tx(nil, r); err != nil {
		return nil, err
	}
	return r, nil
}
