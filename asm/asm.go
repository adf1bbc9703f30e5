// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the μISA assembler: a Lexer, a two-pass
// Parser, and an Encoder, composed by Assemble into the single
// source-to-bytes transformation the rest of the toolchain consumes.
package asm

import (
	"io"
	"os"
	"strings"
)

// Options configures an Assemble call. The zero value selects
// legacy-lenient label resolution with no warning sink; use
// DefaultOptions for the strict default.
type Options struct {
	StrictLabels bool
	Warn         func(line int, format string, args ...interface{})
}

// DefaultOptions returns the default Options: strict label
// resolution, warnings discarded.
func DefaultOptions() Options {
	return Options{StrictLabels: true, Warn: func(int, string, ...interface{}) {}}
}

// Assemble reads a complete μISA source file from r and returns its
// assembled ParseResult alongside the big-endian object bytes ready
// for writing. r is read once: the parser buffers its lines and walks
// the buffered lines in each of its two passes, so r need not be
// seekable.
func Assemble(r io.Reader, opts Options) (*ParseResult, []byte, error) {
	p := NewParser()
	result, err := p.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	enc := &Encoder{StrictLabels: opts.StrictLabels, Warnf: opts.Warn}
	if enc.Warnf == nil {
		enc.Warnf = func(int, string, ...interface{}) {}
	}

	bytes, err := enc.Encode(result)
	if err != nil {
		return nil, nil, err
	}
	return result, bytes, nil
}

// AssembleFile opens path, assembles it with opts, and writes the
// resulting object bytes to outPath. It is the entry point used by
// cmd/uasm; the host's "assemble" command calls Assemble directly.
func AssembleFile(path, outPath string, opts Options) (*ParseResult, error) {
	if !strings.HasSuffix(path, ".asm") {
		opts.warn(0, "source file %q does not use the conventional .asm extension", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ErrFileNotFound, Msg: err.Error()}
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidInput, Msg: err.Error()}
	}

	result, bytes, err := Assemble(strings.NewReader(string(src)), opts)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidOutput, Msg: err.Error()}
	}
	defer out.Close()

	if _, err := out.Write(bytes); err != nil {
		return nil, &Error{Kind: ErrWritingFailed, Msg: err.Error()}
	}

	return result, nil
}

func (o Options) warn(line int, format string, args ...interface{}) {
	if o.Warn != nil {
		o.Warn(line, format, args...)
	}
}
