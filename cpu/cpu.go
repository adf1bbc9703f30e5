// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the μISA CPU: registers, Harvard memory, the
// 16-opcode dispatch table, and the fetch-decode-execute loop.
package cpu

// TraceFunc is invoked once per executed instruction, after the
// instruction's effect has been applied, once installed with SetTrace.
type TraceFunc func(cpu *CPU, ip uint16, word uint32)

// CPU represents a single μISA core: its register file bound to a
// Harvard Memory instance.
type CPU struct {
	Reg         Registers
	Mem         *Memory
	Cycles      uint64
	running     bool
	branchTaken bool
	debugger    *Debugger
	trace       TraceFunc
}

// NewCPU creates a μISA CPU bound to the given memory. The CPU starts
// Halted; call Reset then Run or Step to begin execution.
func NewCPU(m *Memory) *CPU {
	c := &CPU{Mem: m}
	c.Reg.Init()
	return c
}

// Reset clears the register file and program counter. It does not
// touch memory contents.
func (c *CPU) Reset() {
	c.Reg.Init()
	c.running = false
}

// SetPC sets the program counter directly, for use by the host's
// load/step commands.
func (c *CPU) SetPC(addr uint16) {
	c.Reg.IP = addr
}

// AttachDebugger associates a Debugger with the CPU so that breakpoint
// and data-breakpoint notifications fire during Run/Step.
func (c *CPU) AttachDebugger(d *Debugger) {
	c.debugger = d
}

// DetachDebugger removes any attached Debugger.
func (c *CPU) DetachDebugger() {
	c.debugger = nil
}

// SetTrace installs (or, with nil, removes) a verbose execution trace
// callback invoked after every instruction.
func (c *CPU) SetTrace(fn TraceFunc) {
	c.trace = fn
}

// Running reports whether the CPU is mid-Run (false once Halted).
func (c *CPU) Running() bool {
	return c.running
}

// Break asynchronously requests that an in-progress Run stop before
// its next instruction. It is safe to call from a signal-handling
// goroutine; running is only ever polled between instructions, never
// written concurrently with a read of the same cycle.
func (c *CPU) Break() {
	c.running = false
}

// Step executes exactly one fetch-decode-execute cycle and returns
// any resulting error. ErrHalt is returned (not wrapped) when the
// instruction was READY or when IP has run off the end of instruction
// memory; both are clean halts.
func (c *CPU) Step() error {
	i := c.Reg.IP / 4
	word, err := c.Mem.FetchInstruction(i)
	if err != nil {
		c.running = false
		return ErrHalt
	}

	d := decoded{
		op: OpCode(word >> 24),
		a:  uint8(word >> 16),
		b:  uint8(word >> 8),
		c:  uint8(word),
	}

	if !d.op.Valid() {
		c.running = false
		return &ExecError{Kind: ErrInvalidInstruction, Addr: c.Reg.IP}
	}

	if err := validateFormat(d); err != nil {
		err.(*ExecError).Addr = c.Reg.IP
		c.running = false
		return err
	}

	c.branchTaken = false
	info := instructionTable[d.op]
	execErr := info.Exec(c, d)

	if c.trace != nil {
		c.trace(c, c.Reg.IP, word)
	}

	if execErr != nil {
		c.running = false
		return execErr
	}

	if !c.branchTaken {
		c.Reg.IP += 4
	}

	if c.debugger != nil {
		c.debugger.onUpdatePC(c, c.Reg.IP)
	}

	c.Cycles++
	return nil
}

// validateFormat checks the register fields of a decoded instruction
// against its format's rules: every field actually used as a
// register number must be < 16.
func validateFormat(d decoded) error {
	switch d.op.Format() {
	case F1:
		if !ValidRegister(d.a) || !ValidRegister(d.b) || !ValidRegister(d.c) {
			return &ExecError{Kind: ErrInvalidRegister, Addr: 0}
		}
	case F2:
		if !ValidRegister(d.c) {
			return &ExecError{Kind: ErrInvalidRegister, Addr: 0}
		}
	case F3:
		if !ValidRegister(d.a) || !ValidRegister(d.b) || !ValidRegister(d.c) {
			return &ExecError{Kind: ErrInvalidRegister, Addr: 0}
		}
	case F4:
		if !ValidRegister(d.a) {
			return &ExecError{Kind: ErrInvalidRegister, Addr: 0}
		}
	}
	return nil
}

// Run executes instructions until a halt condition (READY, end of
// instruction memory), a breakpoint, an error, or an external Break.
// Halt is reported as ErrHalt, not as a failure.
func (c *CPU) Run() error {
	c.running = true
	for c.running {
		if c.debugger != nil {
			if bp := c.debugger.GetBreakpoint(c.Reg.IP); bp != nil && !bp.Disabled {
				c.running = false
				return nil
			}
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
