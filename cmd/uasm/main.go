// Command uasm is the standalone μISA cross-assembler: it reads a
// single source file and writes the assembled big-endian object bytes
// to disk, exiting with a code that maps 1-to-1 to the assembler's
// error enumeration.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"uisa/asm"
)

func main() {
	out := flag.String("o", "", "output file (default: input file with .bin extension)")
	strictLabels := flag.Bool("strict-labels", true, "fail on unresolved branch-target labels instead of emitting 0xFFFF")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: uasm [-o out.bin] [-strict-labels=true] in.asm")
		os.Exit(1)
	}

	inPath := flag.Arg(0)
	outPath := *out
	if outPath == "" {
		outPath = defaultOutputPath(inPath)
	}

	opts := asm.DefaultOptions()
	opts.StrictLabels = *strictLabels
	opts.Warn = func(line int, format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		if line > 0 {
			fmt.Fprintf(os.Stderr, "uasm: warning: %s (line %d)\n", msg, line)
		} else {
			fmt.Fprintf(os.Stderr, "uasm: warning: %s\n", msg)
		}
	}

	result, err := asm.AssembleFile(inPath, outPath, opts)
	if err != nil {
		asmErr, ok := err.(*asm.Error)
		if !ok {
			fmt.Fprintf(os.Stderr, "uasm: %v\n", err)
			os.Exit(1)
		}
		if asmErr.Line > 0 {
			fmt.Fprintf(os.Stderr, "uasm: %s: %s (line %d)\n", asmErr.Kind, asmErr.Msg, asmErr.Line)
		} else {
			fmt.Fprintf(os.Stderr, "uasm: %s: %s\n", asmErr.Kind, asmErr.Msg)
		}
		os.Exit(int(asmErr.Kind) + 1)
	}

	fmt.Printf("uasm: assembled %d instructions to %s\n", len(result.Instructions), outPath)
}

func defaultOutputPath(inPath string) string {
	ext := ""
	if i := strings.LastIndexByte(inPath, '.'); i >= 0 {
		ext = inPath[i:]
	}
	return strings.TrimSuffix(inPath, ext) + ".bin"
}
