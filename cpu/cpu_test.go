package cpu_test

import (
	"errors"
	"testing"

	"uisa/cpu"
)

// encodeF1 builds a big-endian F1/F3 instruction word: op, a, b, c.
func encodeF1(op cpu.OpCode, a, b, c uint8) uint32 {
	return uint32(op)<<24 | uint32(a)<<16 | uint32(b)<<8 | uint32(c)
}

// encodeSetConst builds a SET_CONST word: op, const_hi, const_lo, dst.
func encodeSetConst(v uint16, dst uint8) uint32 {
	return uint32(cpu.SET_CONST)<<24 | uint32(byte(v>>8))<<16 | uint32(byte(v))<<8 | uint32(dst)
}

// encodeBNZ builds a BNZ/READY word: op, src0, target_hi, target_lo.
func encodeBNZ(op cpu.OpCode, src0 uint8, target uint16) uint32 {
	return uint32(op)<<24 | uint32(src0)<<16 | uint32(byte(target>>8))<<8 | uint32(byte(target))
}

func loadProgram(t *testing.T, words ...uint32) *cpu.CPU {
	t.Helper()
	mem := cpu.NewMemory(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
	b := make([]byte, 0, 4*len(words))
	for _, w := range words {
		b = append(b, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	if err := mem.LoadProgram(b); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	return cpu.NewCPU(mem)
}

func TestAddAndSetConst(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(5, 0),
		encodeSetConst(7, 1),
		encodeF1(cpu.ADD, 0, 1, 2),
		encodeBNZ(cpu.READY, 0, 0),
	)

	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Reg.Get(2); got != 12 {
		t.Errorf("R2 = %d, want 12", got)
	}

	if err := c.Step(); !errors.Is(err, cpu.ErrHalt) {
		t.Fatalf("expected ErrHalt on READY, got %v", err)
	}
	if c.Reg.IP != 0 {
		t.Errorf("IP after READY = %#x, want 0", c.Reg.IP)
	}
}

func TestMulWrapsHighWordToR0(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(1000, 0),
		encodeSetConst(1000, 1),
		encodeF1(cpu.MUL, 0, 1, 15),
	)
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	p := uint32(1000) * uint32(1000)
	if got := c.Reg.Get(15); got != uint16(p&0xFFFF) {
		t.Errorf("R15 = %#x, want %#x", got, uint16(p&0xFFFF))
	}
	if got := c.Reg.Get(0); got != uint16((p>>16)&0xFFFF) {
		t.Errorf("R0 (wrapped high word) = %#x, want %#x", got, uint16((p>>16)&0xFFFF))
	}
}

func TestDivisionByZero(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(5, 0),
		encodeSetConst(0, 1),
		encodeF1(cpu.DIV, 0, 1, 2),
	)
	c.Step()
	c.Step()
	err := c.Step()
	var execErr *cpu.ExecError
	if !errors.As(err, &execErr) || execErr.Kind != cpu.ErrDivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestShiftCountOf16OrMoreYieldsZero(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(0xFFFF, 0),
		encodeSetConst(16, 1),
		encodeF1(cpu.RSHFT, 0, 1, 2),
		encodeF1(cpu.LSHFT, 0, 1, 3),
	)
	for i := 0; i < 4; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Reg.Get(2); got != 0 {
		t.Errorf("RSHFT by 16 = %#x, want 0", got)
	}
	if got := c.Reg.Get(3); got != 0 {
		t.Errorf("LSHFT by 16 = %#x, want 0", got)
	}
}

func TestBranchTakenSetsIPDirectly(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(1, 0),
		encodeBNZ(cpu.BNZ, 0, 12),
		encodeSetConst(99, 1),
		encodeBNZ(cpu.READY, 0, 0),
	)
	c.Step() // set_const
	ipBefore := c.Reg.IP
	c.Step() // bnz taken
	if c.Reg.IP != 12 {
		t.Errorf("IP after taken BNZ = %#x, want 12", c.Reg.IP)
	}
	_ = ipBefore
	if got := c.Reg.Get(1); got != 0 {
		t.Errorf("R1 = %d, want 0 (set_const 99 should have been skipped)", got)
	}
}

func TestBranchNotTakenFallsThrough(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(0, 0),
		encodeBNZ(cpu.BNZ, 0, 12),
	)
	c.Step()
	ipBefore := c.Reg.IP
	c.Step()
	if c.Reg.IP != ipBefore+4 {
		t.Errorf("IP after not-taken BNZ = %#x, want %#x", c.Reg.IP, ipBefore+4)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := loadProgram(t,
		encodeSetConst(0xBEEF, 0),
		encodeSetConst(0x10, 1),
		encodeSetConst(0x00, 2),
		encodeF1(cpu.ST, 0, 1, 2),
		encodeF1(cpu.LD, 1, 2, 3),
	)
	for i := 0; i < 5; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Reg.Get(3); got != 0xBEEF {
		t.Errorf("R3 = %#x, want 0xBEEF", got)
	}
}

func TestHaltAtEndOfInstructionMemory(t *testing.T) {
	mem := cpu.NewMemory(4, cpu.DefaultDataMemSize)
	if err := mem.LoadProgram([]byte{byte(cpu.NOP), 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	c := cpu.NewCPU(mem)
	if err := c.Step(); err != nil {
		t.Fatalf("first NOP should not halt: %v", err)
	}
	if err := c.Step(); !errors.Is(err, cpu.ErrHalt) {
		t.Fatalf("expected ErrHalt falling off instruction memory, got %v", err)
	}
}
