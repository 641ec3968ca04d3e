/*
Command eforth is an interactive, extensible, stack-oriented Forth
environment with a built-in compiler.

The machine keeps four chunks of state: a bounded parameter stack with a
cached top-of-stack register, a bounded return stack used for call frames
and loop counters, a dictionary of word records, and a byte-addressable
parameter memory ("pmem") holding word names, threaded code, inline
literals, and variable cells.

Compiled code is a stream of 16-bit instruction units. The high bit
separates built-in references (clear: the unit is a dictionary index)
from everything else (set). Of the high-bit-set units, values below the
primitive ceiling are primitive opcodes handled directly by the inner
interpreter; values at or above it carry the parameter-field address of a
user-defined colon word to call.

The outer interpreter reads whitespace-delimited tokens, resolves them
against the dictionary, and either executes them or compiles them into
the colon definition under construction. Tokens that miss the dictionary
are parsed as numbers in the current BASE, with %, &, # and $ prefixes
forcing binary, decimal and hex.

Execution is cooperative: the "key" primitive suspends the machine until
the host supplies a character, and a per-call time slice suspends long
runs so an embedding host stays responsive. Both suspensions snapshot the
instruction pointer on the return stack and resume exactly where they
left off.

Usage:

	vm := New(WithInput(os.Stdin), WithOutput(os.Stdout))
	err := vm.Run(context.Background())

or drive it a line at a time:

	vm := New(WithOutputFunc(func(_ int, s string) { fmt.Print(s) }))
	for vm.Eval(": sq dup * ; 7 sq") {
	}
*/
package main
