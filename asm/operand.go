package asm

// OperandKind discriminates the three live shapes an Operand can take
// in this source language — a single sum type replacing the source's
// parallel validity flags (is_reg_valid, is_immediate_valid, ...).
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandLabelRef
	OperandMemPair
)

// Operand is a parsed instruction operand. Exactly the fields implied
// by Kind are meaningful:
//   - OperandRegister:  Reg
//   - OperandImmediate: Value
//   - OperandLabelRef:  Label (resolved to Value at encode time)
//   - OperandMemPair:   Base, Offset
type Operand struct {
	Kind   OperandKind
	Reg    uint8
	Value  uint16
	Label  string
	Base   uint8
	Offset uint8
}
