package asm

import (
	"strings"
	"testing"
)

func assembleBytes(t *testing.T, src string) []byte {
	t.Helper()
	_, b, err := Assemble(strings.NewReader(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	return b
}

func TestEncodeSetConstImmediateLoad(t *testing.T) {
	b := assembleBytes(t, "set_const 0x1234, R2\n")
	want := []byte{0x0C, 0x12, 0x34, 0x02}
	if string(b) != string(want) {
		t.Errorf("encoded % 02X, want % 02X", b, want)
	}
}

func TestEncodeAddProgram(t *testing.T) {
	b := assembleBytes(t, "set_const 5, R0\nset_const 7, R1\nadd R0, R1, R2\nready\n")
	if len(b) != 16 {
		t.Fatalf("got %d bytes, want 16", len(b))
	}
}

func TestEncodeResolvesForwardLabel(t *testing.T) {
	b := assembleBytes(t, "set_const 1, R0\nbnz R0, end\nset_const 99, R1\nend: ready\n")
	// bnz is the second instruction, bytes 4..7: op, src0, target_hi, target_lo.
	bnzWord := b[4:8]
	target := uint16(bnzWord[2])<<8 | uint16(bnzWord[3])
	if target != 12 {
		t.Errorf("resolved branch target = %d, want 12", target)
	}
}

func TestStrictModeFailsOnUnresolvedLabel(t *testing.T) {
	_, _, err := Assemble(strings.NewReader("bnz R0, nowhere\n"), DefaultOptions())
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrLabelNotFound {
		t.Fatalf("expected LabelNotFound in strict mode, got %v", err)
	}
}

func TestLegacyLenientModeEncodesFFFF(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictLabels = false
	var warned bool
	opts.Warn = func(line int, format string, args ...interface{}) { warned = true }

	_, b, err := Assemble(strings.NewReader("bnz R0, nowhere\n"), opts)
	if err != nil {
		t.Fatalf("unexpected error in legacy-lenient mode: %v", err)
	}
	if b[2] != 0xFF || b[3] != 0xFF {
		t.Errorf("unresolved label bytes = %02X %02X, want FF FF", b[2], b[3])
	}
	if !warned {
		t.Error("expected a warning callback for the unresolved label")
	}
}
