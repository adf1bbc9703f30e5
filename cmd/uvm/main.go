// Command uvm is the interactive μISA host: a command-line debugger
// shell wrapping a CPU, its Harvard memory, and the assembler.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"uisa/cpu"
	"uisa/host"
	"uisa/term"
)

func main() {
	instrSize := flag.Int("imem", cpu.DefaultInstrMemSize, "instruction memory size in bytes")
	dataSize := flag.Int("dmem", cpu.DefaultDataMemSize, "data memory size in bytes")
	trace := flag.Bool("trace", false, "print each executed instruction as it runs")
	flag.Parse()

	h := host.NewWithMemorySizes(*instrSize, *dataSize)
	if *trace {
		h.EnableTrace()
	}

	// Run commands contained in command-line files before dropping into
	// the interactive prompt.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Only decorate the session with prompts and the current-instruction
	// display when standard input is actually an interactive terminal,
	// not a pipe.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
