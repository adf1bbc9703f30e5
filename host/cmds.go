package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("uvm")
	root.AddCommand(cmd.Command{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})

	root.AddCommand(cmd.Command{
		Name:  "assemble",
		Brief: "Assemble a source file and load it",
		Description: "Run the assembler on the specified source file and," +
			" if it assembles cleanly, load the resulting machine code into" +
			" instruction memory and reset the program counter to zero." +
			" This is a debugging convenience; the standalone uasm command" +
			" is the tool for producing a .bin file on disk.",
		Usage: "assemble <filename>",
		Data:  (*Host).cmdAssembleFile,
	})

	// Breakpoint commands
	bp := cmd.NewTree("Breakpoint")
	root.AddCommand(cmd.Command{
		Name:    "breakpoint",
		Brief:   "Breakpoint commands",
		Subtree: bp,
	})
	bp.AddCommand(cmd.Command{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
		Data:        (*Host).cmdBreakpointList,
	})
	bp.AddCommand(cmd.Command{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified instruction address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  (*Host).cmdBreakpointAdd,
	})
	bp.AddCommand(cmd.Command{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        (*Host).cmdBreakpointRemove,
	})
	bp.AddCommand(cmd.Command{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        (*Host).cmdBreakpointEnable,
	})
	bp.AddCommand(cmd.Command{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint, preventing it" +
			" from stopping execution.",
		Usage: "breakpoint disable <address>",
		Data:  (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	dbp := cmd.NewTree("Data breakpoint")
	root.AddCommand(cmd.Command{
		Name:    "databreakpoint",
		Brief:   "Data breakpoint commands",
		Subtree: dbp,
	})
	dbp.AddCommand(cmd.Command{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
		Data:        (*Host).cmdDataBreakpointList,
	})
	dbp.AddCommand(cmd.Command{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a data breakpoint on the specified data memory" +
			" address. When an ST instruction stores to this address, the" +
			" breakpoint stops the CPU. A byte value may optionally be" +
			" given to make the breakpoint conditional on that value.",
		Usage: "databreakpoint add <address> [<value>]",
		Data:  (*Host).cmdDataBreakpointAdd,
	})
	dbp.AddCommand(cmd.Command{
		Name:        "remove",
		Brief:       "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint.",
		Usage:       "databreakpoint remove <address>",
		Data:        (*Host).cmdDataBreakpointRemove,
	})

	root.AddCommand(cmd.Command{
		Name:  "disassemble",
		Brief: "Disassemble instruction memory",
		Description: "Disassemble instructions starting at the requested" +
			" address. If no address is given, disassembly continues from" +
			" where the last disassembly left off.",
		Usage: "disassemble [<address>] [<count>]",
		Data:  (*Host).cmdDisassemble,
	})
	root.AddCommand(cmd.Command{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate a mathematical expression over registers and labels.",
		Usage:       "evaluate <expression>",
		Data:        (*Host).cmdEvaluate,
	})
	root.AddCommand(cmd.Command{
		Name:  "load",
		Brief: "Load an assembled binary file",
		Description: "Load the contents of a previously assembled .bin file" +
			" directly into instruction memory, replacing its contents, and" +
			" reset the program counter to zero.",
		Usage: "load <filename>",
		Data:  (*Host).cmdLoad,
	})

	// Memory commands
	mem := cmd.NewTree("Memory")
	root.AddCommand(cmd.Command{
		Name:    "memory",
		Brief:   "Memory commands",
		Subtree: mem,
	})
	mem.AddCommand(cmd.Command{
		Name:  "dump",
		Brief: "Dump data memory at address",
		Description: "Dump the contents of data memory starting from the" +
			" specified address. The number of bytes to dump may be given" +
			" as an option.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	mem.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set data memory at address",
		Description: "Set the contents of data memory starting from the" +
			" specified address to a series of space-separated byte values.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})

	root.AddCommand(cmd.Command{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.AddCommand(cmd.Command{
		Name:  "registers",
		Brief: "Display register contents",
		Description: "Display the current contents of all 16 general-purpose" +
			" registers and the instruction pointer, and disassemble the" +
			" instruction at the current IP.",
		Usage: "registers",
		Data:  (*Host).cmdRegisters,
	})
	root.AddCommand(cmd.Command{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU from the current IP until it halts, an" +
			" error occurs, a breakpoint is hit, or the user types Ctrl-C.",
		Usage: "run",
		Data:  (*Host).cmdRun,
	})
	root.AddCommand(cmd.Command{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a debugger setting, such as trace" +
			" mode. Typing set without arguments lists all settings.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.Command{
		Name:  "step",
		Brief: "Step the CPU",
		Description: "Execute a single instruction and display the" +
			" resulting registers and next instruction. The number of" +
			" instructions to step may be given as an option.",
		Usage: "step [<count>]",
		Data:  (*Host).cmdStep,
	})

	// Add command shortcuts.
	root.AddShortcut("a", "assemble")
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("l", "load")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "registers")

	cmds = root
}
