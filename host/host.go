// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive μISA debugger shell: it
// wraps a cpu.CPU and cpu.Memory with a command interpreter, breakpoint
// and data-breakpoint management, register and memory inspection, and
// an assemble-and-load convenience command.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/beevik/cmd"

	"uisa/asm"
	"uisa/cpu"
	"uisa/disasm"
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateInterrupted
	stateBreakpoint
)

// A Host represents a fully emulated μISA system: instruction and data
// memory, a CPU, a built-in assembler, a built-in debugger, and other
// useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.Memory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	labels      map[string]uint16
	settings    *settings
	exprParser  *exprParser
}

// New creates a new μISA host environment with default-sized
// instruction and data memory.
func New() *Host {
	return NewWithMemorySizes(cpu.DefaultInstrMemSize, cpu.DefaultDataMemSize)
}

// NewWithMemorySizes creates a host whose instruction and data memory
// regions are sized as given, rather than using the package defaults.
func NewWithMemorySizes(instrSize, dataSize int) *Host {
	h := &Host{
		state:      stateProcessingCommands,
		exprParser: newExprParser(),
		labels:     make(map[string]uint16),
		settings:   newSettings(),
	}

	h.mem = cpu.NewMemory(instrSize, dataSize)
	h.cpu = cpu.NewCPU(h.mem)

	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	h.cpu.AttachDebugger(h.debugger)

	return h
}

// RunCommands accepts host commands from a reader and writes results to
// w. If interactive, a prompt is displayed while the host waits for the
// next command.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		if err = h.processCommand(line); err != nil {
			break
		}
	}
}

// EnableTrace turns on trace mode, causing every executed instruction
// to be echoed to the output as it runs.
func (h *Host) EnableTrace() {
	h.settings.TraceMode = true
}

// Break interrupts a running CPU, or prints a notice if nothing is
// running. It is intended to be wired to a Ctrl-C handler.
func (h *Host) Break() {
	h.println()

	switch h.state {
	case stateRunning:
		h.state = stateInterrupted
	case stateProcessingCommands:
		h.println("Type 'quit' to exit the application.")
		h.prompt()
	}
}

func (h *Host) processCommand(line string) error {
	var c cmd.Selection
	if line != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if h.lastCmd != nil {
		c = *h.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		h.displayCommands(c.Command.Subtree, nil)
		return nil
	}

	h.lastCmd = &c

	handler := c.Command.Data.(func(*Host, cmd.Selection) error)
	return handler(h, c)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if !h.interactive {
		return
	}
	h.printf("* ")
	h.flush()
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassembleAt(h.cpu.Reg.IP, true)
		h.println(d)
	}
}

func (h *Host) cmdAssembleFile(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	filename := c.Args[0]
	if !strings.Contains(filename, ".") {
		filename += ".asm"
	}

	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filename, err)
		return nil
	}
	defer file.Close()

	result, code, err := asm.Assemble(file, asm.DefaultOptions())
	if err != nil {
		h.printf("Failed to assemble '%s': %v\n", filename, err)
		return nil
	}

	if err := h.mem.LoadProgram(code); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.labels = result.Labels
	h.cpu.Reset()
	h.settings.NextDisasmAddr = 0

	h.printf("Assembled and loaded '%s' (%d bytes, %d instructions).\n",
		filename, len(code), len(result.Instructions))
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	filename := c.Args[0]
	b, err := os.ReadFile(filename)
	if err != nil {
		h.printf("Failed to read '%s': %v\n", filename, err)
		return nil
	}

	if err := h.mem.LoadProgram(b); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.labels = nil
	h.cpu.Reset()
	h.settings.NextDisasmAddr = 0

	h.printf("Loaded '%s' (%d bytes) into instruction memory.\n", filename, len(b))
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	bps := h.debugger.GetBreakpoints()
	if len(bps) == 0 {
		h.println("No breakpoints set.")
		return nil
	}

	disabled := func(b *cpu.Breakpoint) string {
		if b.Disabled {
			return "(disabled)"
		}
		return ""
	}

	h.println("Breakpoints:")
	for _, b := range bps {
		h.printf("   0x%04X %s\n", b.Address, disabled(b))
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at 0x%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set at 0x%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at 0x%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set at 0x%04X.\n", addr)
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at 0x%04X enabled.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set at 0x%04X.\n", addr)
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at 0x%04X disabled.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	bps := h.debugger.GetDataBreakpoints()
	if len(bps) == 0 {
		h.println("No data breakpoints set.")
		return nil
	}

	disabled := func(b *cpu.DataBreakpoint) string {
		if b.Disabled {
			return "(disabled)"
		}
		return ""
	}

	h.println("Data breakpoints:")
	for _, b := range bps {
		if b.Conditional {
			h.printf("   0x%04X on value 0x%02X %s\n", b.Address, b.Value, disabled(b))
		} else {
			h.printf("   0x%04X %s\n", b.Address, disabled(b))
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at 0x%04X for value 0x%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at 0x%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], 0)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set at 0x%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at 0x%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	addr, err := h.parseAddr(c.Args[0], h.settings.NextDisasmAddr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassembleAt(addr, false)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("0x%04X\n", v)
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands(cmds, nil)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
		} else {
			switch {
			case s.Command.Subtree != nil:
				h.displayCommands(s.Command.Subtree, s.Command)
			default:
				if s.Command.Usage != "" {
					h.printf("Usage: %s\n\n", s.Command.Usage)
				}
				switch {
				case s.Command.Description != "":
					h.printf("Description:\n%s\n\n", indentWrap(3, s.Command.Description))
				case s.Command.Brief != "":
					h.printf("Description:\n%s.\n\n", indentWrap(3, s.Command.Brief))
				}
				if len(s.Command.Shortcuts) > 0 {
					switch {
					case len(s.Command.Shortcuts) > 1:
						h.printf("Shortcuts: %s\n\n", strings.Join(s.Command.Shortcuts, ", "))
					default:
						h.printf("Shortcut: %s\n\n", s.Command.Shortcuts[0])
					}
				}
			}
		}
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	addr, err := h.parseAddr(c.Args[0], h.settings.NextMemDumpAddr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		b, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = b
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0], h.settings.NextMemDumpAddr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i := 1; i < len(c.Args); i++ {
		v, err := h.parseExpr(c.Args[i])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if err := h.mem.StoreDataByte(addr, byte(v)); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr++
	}

	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting program")
}

func (h *Host) cmdRegisters(c cmd.Selection) error {
	d, _ := h.disassembleAt(h.cpu.Reg.IP, true)
	h.println(d)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	h.printf("Running from 0x%04X. Press ctrl-C to break.\n", h.cpu.Reg.IP)

	h.state = stateRunning
	var runErr error
	for h.state == stateRunning {
		ip := h.cpu.Reg.IP
		runErr = h.cpu.Step()
		if h.settings.TraceMode {
			d, _ := h.disassembleAt(ip, true)
			h.println(d)
		}
		if runErr != nil {
			h.state = stateProcessingCommands
			break
		}
	}

	switch {
	case runErr != nil && !errors.Is(runErr, cpu.ErrHalt):
		h.printf("%v\n", runErr)
	case runErr != nil:
		h.println("Halted.")
	}

	if h.state == stateInterrupted {
		h.state = stateProcessingCommands
	}

	h.displayPC()
	h.settings.NextDisasmAddr = h.cpu.Reg.IP
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Settings:")
		h.settings.Display(h.output)

	case 1:
		h.displayUsage(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		default:
			v, errV := stringToBool(value)
			if errV == nil {
				err = h.settings.Set(key, v)
			} else {
				n, errN := h.parseExpr(value)
				if errN != nil {
					err = errN
				} else {
					err = h.settings.Set(key, n)
				}
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err == nil {
			count = int(n)
		}
	}

	h.state = stateRunning
	for i := 0; i < count && h.state == stateRunning; i++ {
		err := h.cpu.Step()
		switch {
		case h.settings.TraceMode && i < h.settings.MaxStepLines:
			h.displayPC()
		case h.settings.TraceMode && i == h.settings.MaxStepLines:
			h.println("...")
		}
		if err != nil {
			h.state = stateProcessingCommands
			if !errors.Is(err, cpu.ErrHalt) {
				h.printf("%v\n", err)
			}
			break
		}
	}

	h.state = stateProcessingCommands
	if !h.settings.TraceMode {
		h.displayPC()
	}
	h.settings.NextDisasmAddr = h.cpu.Reg.IP
	return nil
}

func (h *Host) parseAddr(s string, next uint16) (uint16, error) {
	switch s {
	case "$":
		if next != 0 {
			return next, nil
		}
		fallthrough
	case ".":
		return h.cpu.Reg.IP, nil
	default:
		return h.parseExpr(s)
	}
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

// disassembleAt disassembles the instruction at byte address addr and
// returns the formatted line plus the byte address of the following
// instruction. If registers is true, register contents are appended.
func (h *Host) disassembleAt(addr uint16, registers bool) (str string, next uint16) {
	line, nextWord, err := disasm.Disassemble(h.mem, addr/4, h.labels)
	if err != nil {
		return fmt.Sprintf("0x%04X- %v", addr, err), addr + 4
	}
	next = nextWord * 4

	if h.settings.CompactMode {
		str = fmt.Sprintf("%04X- %s", addr, line)
	} else {
		str = fmt.Sprintf("%04X-   %-28s", addr, line)
	}

	if registers {
		str += "  " + formatRegisters(&h.cpu.Reg)
	}
	str += fmt.Sprintf(" C=%d", h.cpu.Cycles)

	return str, next
}

func formatRegisters(r *cpu.Registers) string {
	var b strings.Builder
	for i := 0; i < cpu.NumRegisters; i++ {
		fmt.Fprintf(&b, "R%d=%04X ", i, r.Get(uint8(i)))
	}
	fmt.Fprintf(&b, "IP=%04X", r.IP)
	return b.String()
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadDataByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.mem.LoadDataByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Usage: %s\n", c.Usage)
	}
}

func (h *Host) displayCommands(commands *cmd.Tree, c *cmd.Command) {
	h.printf("%s commands:\n", commands.Title)
	for _, c := range commands.Commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
	h.println()

	if c != nil && len(c.Shortcuts) > 0 {
		switch {
		case len(c.Shortcuts) > 1:
			h.printf("Shortcuts: %s\n\n", strings.Join(c.Shortcuts, ", "))
		default:
			h.printf("Shortcut: %s\n\n", c.Shortcuts[0])
		}
	}
}

// resolveIdentifier resolves a register name (R0-R15, IP), or a label
// from the most recently assembled program, to its numeric value. It
// implements the resolver interface used by exprParser.
func (h *Host) resolveIdentifier(s string) (int64, error) {
	s = strings.ToLower(s)

	if s == "ip" || s == "." {
		return int64(h.cpu.Reg.IP), nil
	}
	if len(s) >= 2 && (s[0] == 'r' || s[0] == 'R') {
		if n, ok := parseRegisterIndex(s[1:]); ok {
			return int64(h.cpu.Reg.Get(uint8(n))), nil
		}
	}

	if addr, ok := h.labels[s]; ok {
		return int64(addr), nil
	}
	for name, addr := range h.labels {
		if strings.ToLower(name) == s {
			return int64(addr), nil
		}
	}

	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func parseRegisterIndex(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if !cpu.ValidRegister(uint8(n)) {
		return 0, false
	}
	return n, true
}

func (h *Host) onBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.state = stateBreakpoint
	h.printf("Breakpoint hit at 0x%04X.\n", b.Address)
	h.displayPC()
}

func (h *Host) onDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address 0x%04X.\n", b.Address)
	h.state = stateBreakpoint
	h.displayPC()
}
