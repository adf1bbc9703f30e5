package asm

import "fmt"

// ErrorKind classifies an assembler-level failure, spanning both the
// assembler boundary and parser taxonomies.
type ErrorKind int

const (
	// Assembler boundary
	ErrInvalidInput ErrorKind = iota
	ErrInvalidOutput
	ErrParserFailed
	ErrWritingFailed

	// Parser
	ErrInvalidInstruction
	ErrInvalidOperand
	ErrInvalidRegister
	ErrInvalidImmediate
	ErrInvalidMemAccess
	ErrTooManyOperands
	ErrTooFewOperands
	ErrInvalidFormat
	ErrLabelAlreadyDefined
	ErrLabelNotFound
	ErrFileNotFound
	ErrLineTooLong
	ErrTooManyInstructions
	ErrTooManyLabels
)

var errorKindNames = [...]string{
	"InvalidInput", "InvalidOutput", "ParserFailed", "WritingFailed",
	"InvalidInstruction", "InvalidOperand", "InvalidRegister", "InvalidImmediate",
	"InvalidMemAccess", "TooManyOperands", "TooFewOperands", "InvalidFormat",
	"LabelAlreadyDefined", "LabelNotFound", "FileNotFound", "LineTooLong",
	"TooManyInstructions", "TooManyLabels",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "UnknownError"
}

// Error is a diagnostic produced anywhere in the lex/parse/encode
// pipeline. Line is 0 when a diagnostic is not tied to a specific
// source line (e.g. ErrFileNotFound).
type Error struct {
	Kind ErrorKind
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Msg, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}
