// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// NumRegisters is the size of the register file, R0..R15.
const NumRegisters = 16

// Registers holds the μISA register file and program counter. Every
// value is 16 bits wide; arithmetic on them wraps modulo 2^16 the way
// the hardware does.
type Registers struct {
	R  [NumRegisters]uint16
	IP uint16
}

// Init clears every register and the program counter to zero.
func (r *Registers) Init() {
	for i := range r.R {
		r.R[i] = 0
	}
	r.IP = 0
}

// Get returns the value of register n. Callers reach Get only after
// format-driven validation during decode, so no bounds check happens
// here.
func (r *Registers) Get(n uint8) uint16 {
	return r.R[n]
}

// Set stores v into register n.
func (r *Registers) Set(n uint8, v uint16) {
	r.R[n] = v
}

// ValidRegister reports whether n addresses one of the 16 registers.
func ValidRegister(n uint8) bool {
	return n < NumRegisters
}
