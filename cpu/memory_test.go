package cpu_test

import "testing"

import "uisa/cpu"

func TestDataMemoryIsLittleEndian(t *testing.T) {
	m := cpu.NewMemory(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
	if err := m.StoreWord(0, 0xABCD); err != nil {
		t.Fatal(err)
	}
	var b [2]byte
	m.LoadDataBytes(0, b[:])
	if b[0] != 0xCD || b[1] != 0xAB {
		t.Errorf("bytes = %02X %02X, want CD AB", b[0], b[1])
	}
	v, err := m.LoadWord(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xABCD {
		t.Errorf("LoadWord = %#x, want 0xABCD", v)
	}
}

func TestInstructionMemoryIsBigEndian(t *testing.T) {
	m := cpu.NewMemory(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
	// set_const 0xABCD, R3 encodes as 0C AB CD 03.
	word := uint32(cpu.SET_CONST)<<24 | 0xAB<<16 | 0xCD<<8 | 0x03
	if err := m.LoadProgram([]byte{byte(word >> 24), byte(word >> 16), byte(word >> 8), byte(word)}); err != nil {
		t.Fatal(err)
	}
	got, err := m.FetchInstruction(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != word {
		t.Errorf("FetchInstruction = %08X, want %08X", got, word)
	}
	raw := m.InstrBytes()
	if raw[0] != 0x0C || raw[1] != 0xAB || raw[2] != 0xCD || raw[3] != 0x03 {
		t.Errorf("raw bytes = % 02X, want 0C AB CD 03", raw[:4])
	}
}

func TestLoadProgramRejectsOversizedImage(t *testing.T) {
	m := cpu.NewMemory(4, cpu.DefaultDataMemSize)
	err := m.LoadProgram([]byte{1, 2, 3, 4, 5})
	if err == nil {
		t.Fatal("expected an error for an oversized program image")
	}
}

func TestOutOfBoundsInstructionFetch(t *testing.T) {
	m := cpu.NewMemory(4, cpu.DefaultDataMemSize)
	_, err := m.FetchInstruction(5)
	if err == nil {
		t.Fatal("expected OutOfBounds fetching past instruction memory")
	}
}
