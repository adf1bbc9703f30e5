package asm

import "uisa/cpu"

// Encoder maps a ParseResult to a big-endian byte stream, one 32-bit
// word per instruction in program order. StrictLabels controls
// whether an unresolved label is a hard failure (the default) or is
// encoded as 0xFFFF with a warning (legacy-lenient mode).
type Encoder struct {
	StrictLabels bool
	Warnf        func(line int, format string, args ...interface{})
}

// NewEncoder returns an Encoder in strict mode with a no-op warning
// sink.
func NewEncoder() *Encoder {
	return &Encoder{StrictLabels: true, Warnf: func(int, string, ...interface{}) {}}
}

// Encode renders every instruction in r to its 32-bit word (also
// caching it on the Instruction itself) and returns the concatenated
// big-endian byte stream.
func (e *Encoder) Encode(r *ParseResult) ([]byte, error) {
	out := make([]byte, 0, len(r.Instructions)*4)
	for i := range r.Instructions {
		inst := &r.Instructions[i]
		word, err := e.encodeOne(inst, r.Labels)
		if err != nil {
			return nil, err
		}
		inst.Word = word
		out = append(out, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
	}
	return out, nil
}

func (e *Encoder) encodeOne(inst *Instruction, labels map[string]uint16) (uint32, error) {
	b3 := uint8(inst.Op)
	var b2, b1, b0 uint8

	switch inst.Format {
	case cpu.F1:
		if inst.NumOps == 3 {
			b2, b1, b0 = inst.Operands[0].Reg, inst.Operands[1].Reg, inst.Operands[2].Reg
		}
	case cpu.F2:
		v, err := e.resolveImmediate(inst.Operands[0], labels, inst.Line)
		if err != nil {
			return 0, err
		}
		b2, b1 = byte(v>>8), byte(v)
		b0 = inst.Operands[1].Reg
	case cpu.F3:
		b2, b1, b0 = inst.Operands[0].Reg, inst.Operands[1].Reg, inst.Operands[2].Reg
	case cpu.F4:
		if inst.NumOps == 2 {
			b2 = inst.Operands[0].Reg
			v, err := e.resolveImmediate(inst.Operands[1], labels, inst.Line)
			if err != nil {
				return 0, err
			}
			b1, b0 = byte(v>>8), byte(v)
		}
	}

	return uint32(b3)<<24 | uint32(b2)<<16 | uint32(b1)<<8 | uint32(b0), nil
}

// resolveImmediate resolves an Immediate or LabelRef operand to its
// 16-bit value. An unresolved label yields 0xFFFF plus a warning in
// legacy-lenient mode, or *Error(LabelNotFound) in strict mode (the
// default).
func (e *Encoder) resolveImmediate(op Operand, labels map[string]uint16, line int) (uint16, error) {
	if op.Kind == OperandImmediate {
		return op.Value, nil
	}
	if addr, ok := labels[op.Label]; ok {
		return addr, nil
	}
	if e.StrictLabels {
		return 0, newError(ErrLabelNotFound, line, "label %q not found", op.Label)
	}
	e.Warnf(line, "label %q not found, encoding 0xFFFF", op.Label)
	return 0xFFFF, nil
}
