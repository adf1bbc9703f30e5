package asm

import "uisa/cpu"

// maxOperands is the largest operand count any format carries (F1/F3).
const maxOperands = 3

// Instruction is one parsed source instruction: its opcode, format,
// its operands (with an explicit count, since not every slot is
// populated for every opcode), its byte address in instruction
// memory, and its encoded 32-bit word once Encode has run.
type Instruction struct {
	Op       cpu.OpCode
	Format   cpu.Format
	Operands [maxOperands]Operand
	NumOps   int
	Addr     uint16
	Word     uint32
	Line     int
}

// Label maps a name to the byte address of the instruction it
// labels.
type Label struct {
	Name string
	Addr uint16
}

// Bounds enforced by the parser. MaxInstructions and MaxLabels are the
// defaults of the Parser fields of the same name, which a caller can
// widen; MaxLabelLen is applied directly and is not configurable.
const (
	MaxInstructions = 1024
	MaxLabels       = 256
	MaxLabelLen     = 63
)

// ParseResult is the output of the two-pass Parser: the ordered
// instruction sequence and the label table built during pass 1.
type ParseResult struct {
	Instructions []Instruction
	Labels       map[string]uint16
}
