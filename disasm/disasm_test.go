package disasm_test

import (
	"strings"
	"testing"

	"uisa/cpu"
	"uisa/disasm"
)

func TestDisassembleSetConst(t *testing.T) {
	m := cpu.NewMemory(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
	word := uint32(cpu.SET_CONST)<<24 | 0x12<<16 | 0x34<<8 | 0x02
	m.LoadProgram([]byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)})

	line, next, err := disasm.Disassemble(m, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if next != 1 {
		t.Errorf("next = %d, want 1", next)
	}
	if !strings.Contains(line, "set_const") || !strings.Contains(line, "0x1234") || !strings.Contains(line, "R2") {
		t.Errorf("line = %q, missing expected substrings", line)
	}
}

func TestDisassembleBNZUsesLabelName(t *testing.T) {
	m := cpu.NewMemory(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
	word := uint32(cpu.BNZ)<<24 | 0<<16 | 0<<8 | 12
	m.LoadProgram([]byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)})

	line, _, err := disasm.Disassemble(m, 0, map[string]uint16{"end": 12})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, "end") {
		t.Errorf("line = %q, want label name \"end\"", line)
	}
}
