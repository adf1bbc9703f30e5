package asm

import (
	"strings"
	"testing"

	"uisa/cpu"
)

func parse(t *testing.T, src string) *ParseResult {
	t.Helper()
	r, err := NewParser().Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return r
}

func TestPass1CollectsLabelAtFollowingInstructionAddress(t *testing.T) {
	r := parse(t, "set_const 1, R0\nbnz R0, end\nset_const 99, R1\nend: ready\n")
	addr, ok := r.Labels["end"]
	if !ok {
		t.Fatal("label \"end\" not recorded")
	}
	if addr != 12 {
		t.Errorf("label \"end\" addr = %d, want 12", addr)
	}
	if len(r.Instructions) != 4 {
		t.Fatalf("got %d instructions, want 4", len(r.Instructions))
	}
}

func TestDuplicateLabelIsFatal(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("foo: ready\nfoo: ready\n"))
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrLabelAlreadyDefined {
		t.Fatalf("expected LabelAlreadyDefined, got %v", err)
	}
}

func TestInstructionAddressesAreMultiplesOfFourAndIncreasing(t *testing.T) {
	r := parse(t, "nop\nnop\nnop\nready\n")
	for i, inst := range r.Instructions {
		if inst.Addr != uint16(i*4) {
			t.Errorf("instruction %d addr = %d, want %d", i, inst.Addr, i*4)
		}
	}
}

func TestArityErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind ErrorKind
	}{
		{"add R0, R1\n", ErrTooFewOperands},
		{"add R0, R1, R2, R3\n", ErrTooManyOperands},
		{"nop R0\n", ErrTooManyOperands},
		{"set_const R0, R1\n", ErrInvalidOperand},
	}
	for _, c := range cases {
		_, err := NewParser().Parse(strings.NewReader(c.src))
		asmErr, ok := err.(*Error)
		if !ok || asmErr.Kind != c.kind {
			t.Errorf("%q: expected %v, got %v", c.src, c.kind, err)
		}
	}
}

func TestInvalidRegisterOutOfRange(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("add R0, R1, R16\n"))
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrInvalidRegister {
		t.Fatalf("expected InvalidRegister for R16, got %v", err)
	}
}

func TestMalformedRegisterTypoIsInvalidRegister(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("add R1a, R1, R2\n"))
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrInvalidRegister {
		t.Fatalf("expected InvalidRegister for R1a typo, got %v", err)
	}
}

func TestCommaIsOptionalBetweenOperands(t *testing.T) {
	r := parse(t, "add R0 R1 R2\n")
	if len(r.Instructions) != 1 {
		t.Fatal("expected one parsed instruction")
	}
	inst := r.Instructions[0]
	if inst.Op != cpu.ADD || inst.NumOps != 3 {
		t.Fatalf("unexpected instruction: %+v", inst)
	}
}

func TestForwardLabelReferenceResolves(t *testing.T) {
	r := parse(t, "bnz R0, end\nend: ready\n")
	if r.Instructions[0].Operands[1].Kind != OperandLabelRef {
		t.Fatal("expected second BNZ operand to be an unresolved label reference after parsing")
	}
	if r.Labels["end"] != 4 {
		t.Errorf("label end = %d, want 4", r.Labels["end"])
	}
}
