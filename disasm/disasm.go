// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a μISA instruction disassembler.
package disasm

import (
	"fmt"

	"uisa/cpu"
)

// Disassemble renders the 32-bit instruction word at word index i of
// m back to source-like text, one line per instruction. labels, if
// non-nil, is consulted to render a BNZ target as a label name
// when an exact address match exists; otherwise the target is shown
// as a raw hex address.
func Disassemble(m *cpu.Memory, i uint16, labels map[string]uint16) (line string, next uint16, err error) {
	word, err := m.FetchInstruction(i)
	if err != nil {
		return "", 0, err
	}

	op := cpu.OpCode(word >> 24)
	a := uint8(word >> 16)
	b := uint8(word >> 8)
	c := uint8(word)
	next = i + 1

	if !op.Valid() {
		return fmt.Sprintf("???              ; raw word %08X", word), next, nil
	}

	switch op.Format() {
	case cpu.F1:
		if op == cpu.NOP {
			return op.Mnemonic(), next, nil
		}
		return fmt.Sprintf("%-9s R%d, R%d, R%d", op.Mnemonic(), a, b, c), next, nil
	case cpu.F2:
		v := uint16(a)<<8 | uint16(b)
		return fmt.Sprintf("%-9s 0x%04X, R%d", op.Mnemonic(), v, c), next, nil
	case cpu.F3:
		return fmt.Sprintf("%-9s R%d, R%d, R%d", op.Mnemonic(), a, b, c), next, nil
	case cpu.F4:
		target := uint16(b)<<8 | uint16(c)
		if op == cpu.READY {
			return op.Mnemonic(), next, nil
		}
		return fmt.Sprintf("%-9s R%d, %s", op.Mnemonic(), a, targetString(target, labels)), next, nil
	default:
		return fmt.Sprintf("%-9s ???", op.Mnemonic()), next, nil
	}
}

func targetString(target uint16, labels map[string]uint16) string {
	for name, addr := range labels {
		if addr == target {
			return name
		}
	}
	return fmt.Sprintf("0x%04X", target)
}
