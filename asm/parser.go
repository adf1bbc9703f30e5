package asm

import (
	"bufio"
	"io"
	"regexp"
	"strconv"

	"uisa/cpu"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Parser drives the two-pass assembly of one source file into a
// ParseResult: pass 1 collects labels and instruction addresses, pass
// 2 parses operands against the now-complete label table, tolerating
// forward references.
type Parser struct {
	MaxInstructions int
	MaxLabels       int
	MaxLineLength   int
}

// NewParser returns a Parser configured with the default label and
// line-length bounds.
func NewParser() *Parser {
	return &Parser{
		MaxInstructions: MaxInstructions,
		MaxLabels:       MaxLabels,
		MaxLineLength:   maxLineLength,
	}
}

// Parse reads the entirety of r once into a slice of lines, which both
// passes then walk, and produces a ParseResult, or the first fatal
// *Error encountered.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	labels, err := p.pass1(lines)
	if err != nil {
		return nil, err
	}

	instrs, err := p.pass2(lines, labels)
	if err != nil {
		return nil, err
	}

	return &ParseResult{Instructions: instrs, Labels: labels}, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength+16)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, newError(ErrInvalidInput, 0, "%v", err)
	}
	return lines, nil
}

// pass1 walks every line in order, recording labels at the current
// address and advancing the address by 4 for every instruction line.
func (p *Parser) pass1(lines []string) (map[string]uint16, error) {
	labels := make(map[string]uint16)
	addr := uint16(0)

	for i, raw := range lines {
		line := i + 1
		tokens, err := Lex(raw, line)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}

		idx := 0
		for idx < len(tokens) && tokens[idx].Kind == TokLabel {
			name := tokens[idx].Lexeme
			if len(name) > MaxLabelLen {
				return nil, newError(ErrInvalidOperand, line, "label %q exceeds %d characters", name, MaxLabelLen)
			}
			if _, exists := labels[name]; exists {
				return nil, newError(ErrLabelAlreadyDefined, line, "label %q already defined", name)
			}
			if len(labels) >= p.MaxLabels {
				return nil, newError(ErrTooManyLabels, line, "more than %d labels", p.MaxLabels)
			}
			labels[name] = addr
			idx++
		}

		if idx < len(tokens) && tokens[idx].Kind == TokInstruction {
			addr += 4
		}
	}
	return labels, nil
}

// pass2 re-walks every line, this time parsing exactly one
// instruction per instruction line against the completed label table.
func (p *Parser) pass2(lines []string, labels map[string]uint16) ([]Instruction, error) {
	var instrs []Instruction
	addr := uint16(0)

	for i, raw := range lines {
		line := i + 1
		tokens, err := Lex(raw, line)
		if err != nil {
			return nil, err
		}

		idx := 0
		for idx < len(tokens) && tokens[idx].Kind == TokLabel {
			idx++
		}
		if idx >= len(tokens) || tokens[idx].Kind != TokInstruction {
			continue
		}

		if len(instrs) >= p.MaxInstructions {
			return nil, newError(ErrTooManyInstructions, line, "more than %d instructions", p.MaxInstructions)
		}

		inst, err := parseInstruction(tokens[idx:], line, addr, labels)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, inst)
		addr += 4
	}
	return instrs, nil
}

// parseInstruction parses one instruction mnemonic and its operands
// starting at tokens[0] (the Instruction token itself).
func parseInstruction(tokens []Token, line int, addr uint16, labels map[string]uint16) (Instruction, error) {
	op, ok := cpu.LookupMnemonic(tokens[0].Lexeme)
	if !ok {
		return Instruction{}, newError(ErrInvalidInstruction, line, "unrecognized mnemonic %q", tokens[0].Lexeme)
	}
	format := op.Format()

	operands, err := parseOperands(tokens[1:], line)
	if err != nil {
		return Instruction{}, err
	}

	if err := checkArity(op, format, operands, line); err != nil {
		return Instruction{}, err
	}

	var ops [maxOperands]Operand
	copy(ops[:], operands)

	return Instruction{
		Op:       op,
		Format:   format,
		Operands: ops,
		NumOps:   len(operands),
		Addr:     addr,
		Line:     line,
	}, nil
}

// checkArity validates operand count/shape against each instruction's
// format. Labels are not resolved here; that happens at encode time.
func checkArity(op cpu.OpCode, format cpu.Format, operands []Operand, line int) error {
	switch op {
	case cpu.NOP, cpu.READY:
		if len(operands) != 0 {
			return newError(ErrTooManyOperands, line, "%s takes no operands", op)
		}
		return nil
	case cpu.SET_CONST:
		if len(operands) < 2 {
			return newError(ErrTooFewOperands, line, "%s requires 2 operands", op)
		}
		if len(operands) > 2 {
			return newError(ErrTooManyOperands, line, "%s takes 2 operands", op)
		}
		if operands[0].Kind != OperandImmediate && operands[0].Kind != OperandLabelRef {
			return newError(ErrInvalidOperand, line, "%s expects an immediate as its first operand", op)
		}
		if operands[1].Kind != OperandRegister {
			return newError(ErrInvalidOperand, line, "%s expects a register as its second operand", op)
		}
		return nil
	case cpu.BNZ:
		if len(operands) < 2 {
			return newError(ErrTooFewOperands, line, "%s requires 2 operands", op)
		}
		if len(operands) > 2 {
			return newError(ErrTooManyOperands, line, "%s takes 2 operands", op)
		}
		if operands[0].Kind != OperandRegister {
			return newError(ErrInvalidOperand, line, "%s expects a register as its first operand", op)
		}
		if operands[1].Kind != OperandImmediate && operands[1].Kind != OperandLabelRef {
			return newError(ErrInvalidOperand, line, "%s expects an immediate or label as its second operand", op)
		}
		return nil
	default:
		// F1 register-triad and F3 (ST) all expect exactly 3 register
		// operands, differing only in field layout applied by the Encoder.
		if len(operands) < 3 {
			return newError(ErrTooFewOperands, line, "%s requires 3 operands", op)
		}
		if len(operands) > 3 {
			return newError(ErrTooManyOperands, line, "%s takes 3 operands", op)
		}
		for _, o := range operands {
			if o.Kind != OperandRegister {
				return newError(ErrInvalidOperand, line, "%s expects register operands", op)
			}
		}
		return nil
	}
}

// parseOperands consumes the remaining tokens on an instruction line
// left-to-right, tolerating (but not requiring) a Comma between
// operands.
func parseOperands(tokens []Token, line int) ([]Operand, error) {
	var operands []Operand
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Kind {
		case TokComma:
			i++
			continue
		case TokLBracket:
			pair, next, err := parseMemPair(tokens, i, line)
			if err != nil {
				return nil, err
			}
			operands = append(operands, pair)
			i = next
		case TokRegister:
			reg, err := parseRegisterLexeme(tok.Lexeme, line)
			if err != nil {
				return nil, err
			}
			operands = append(operands, Operand{Kind: OperandRegister, Reg: reg})
			i++
		case TokImmediate:
			v, err := parseImmediateLexeme(tok.Lexeme, line)
			if err != nil {
				return nil, err
			}
			operands = append(operands, Operand{Kind: OperandImmediate, Value: v})
			i++
		case TokIdentifier:
			if len(tok.Lexeme) > 0 && (tok.Lexeme[0] == 'R' || tok.Lexeme[0] == 'r') {
				return nil, newError(ErrInvalidRegister, line, "malformed register %q", tok.Lexeme)
			}
			if !identifierPattern.MatchString(tok.Lexeme) {
				return nil, newError(ErrInvalidOperand, line, "malformed operand %q", tok.Lexeme)
			}
			operands = append(operands, Operand{Kind: OperandLabelRef, Label: tok.Lexeme})
			i++
		default:
			return nil, newError(ErrInvalidOperand, line, "unexpected token %q", tok.Lexeme)
		}
	}
	return operands, nil
}

// parseMemPair parses the `[Ra,Rb]` / `[Ra Rb]` pseudo-syntax starting
// at tokens[start] (a LBracket), returning the MemPair operand and the
// index just past the matching RBracket.
func parseMemPair(tokens []Token, start, line int) (Operand, int, error) {
	i := start + 1
	var regs []uint8
	for i < len(tokens) && tokens[i].Kind != TokRBracket {
		switch tokens[i].Kind {
		case TokRegister:
			reg, err := parseRegisterLexeme(tokens[i].Lexeme, line)
			if err != nil {
				return Operand{}, 0, err
			}
			regs = append(regs, reg)
		case TokComma:
			// optional separator, ignored
		default:
			return Operand{}, 0, newError(ErrInvalidMemAccess, line, "unexpected token %q inside [...]", tokens[i].Lexeme)
		}
		i++
	}
	if i >= len(tokens) {
		return Operand{}, 0, newError(ErrInvalidMemAccess, line, "unterminated memory operand")
	}
	if len(regs) != 2 {
		return Operand{}, 0, newError(ErrInvalidMemAccess, line, "memory operand requires exactly two registers")
	}
	return Operand{Kind: OperandMemPair, Base: regs[0], Offset: regs[1]}, i + 1, nil
}

func parseRegisterLexeme(lexeme string, line int) (uint8, error) {
	n, err := strconv.Atoi(lexeme[1:])
	if err != nil || n < 0 || n > 15 {
		return 0, newError(ErrInvalidRegister, line, "invalid register %q", lexeme)
	}
	return uint8(n), nil
}

// parseImmediateLexeme checks the 0x/0X prefix against the raw lexeme,
// before any leading sign is stripped, so a negative-hex form like
// "-0x1F" falls through to the decimal branch and is rejected rather
// than parsed as a signed hex literal.
func parseImmediateLexeme(lexeme string, line int) (uint16, error) {
	var v int64
	var err error
	if len(lexeme) > 2 && (lexeme[0:2] == "0x" || lexeme[0:2] == "0X") {
		v, err = strconv.ParseInt(lexeme[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(lexeme, 10, 64)
	}
	if err != nil {
		return 0, newError(ErrInvalidImmediate, line, "malformed immediate %q", lexeme)
	}
	if v < -32768 || v > 65535 {
		return 0, newError(ErrInvalidImmediate, line, "immediate %q out of range", lexeme)
	}
	return uint16(v), nil
}
