package main

import (
	"strconv"
	"strings"
)

func isDelim(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// token reads the next whitespace-delimited idiom from the current
// input line, or "" when the line is exhausted.
func (vm *VM) token() string {
	for vm.inPos < len(vm.in) && isDelim(vm.in[vm.inPos]) {
		vm.inPos++
	}
	start := vm.inPos
	for vm.inPos < len(vm.in) && !isDelim(vm.in[vm.inPos]) {
		vm.inPos++
	}
	return vm.in[start:vm.inPos]
}

// scanTo reads up to and over the delimiter, returning the text before
// it.
func (vm *VM) scanTo(delim byte) string {
	start := vm.inPos
	if i := strings.IndexByte(vm.in[start:], delim); i >= 0 {
		vm.inPos = start + i + 1
		return vm.in[start : start+i]
	}
	vm.inPos = len(vm.in)
	return vm.in[start:]
}

// parseNumber resolves an idiom as a number: a %, & / # or $ prefix
// overrides the current base to 2, 10 or 16.
func (vm *VM) parseNumber(idiom string) (du, error) {
	b := vm.base()
	switch idiom[0] {
	case '%':
		b, idiom = 2, idiom[1:]
	case '&', '#':
		b, idiom = 10, idiom[1:]
	case '$':
		b, idiom = 16, idiom[1:]
	}
	n, err := strconv.ParseInt(idiom, b, 32)
	return du(n), err
}

// core processes one idiom: dictionary words compile or execute
// depending on the compile flag and immediacy; everything else parses
// as a number. An unresolvable idiom reports false, which abandons the
// rest of the line.
func (vm *VM) core(idiom string) bool {
	vm.state = stateQuery
	if w := vm.find(idiom); w != 0 {
		if vm.compile && !vm.isImm(w) {
			vm.addW(iu(w))
		} else {
			vm.call(iu(w))
		}
		return true
	}
	n, err := vm.parseNumber(idiom)
	if err != nil {
		vm.print(idiom + "? \n")
		vm.compile = false
		vm.state = stateStop
		return false
	}
	if vm.compile {
		vm.addW(opLIT)
		vm.addDU(n)
	} else {
		vm.push(n)
	}
	return true
}

// interp runs one driver round: resume a suspended machine, or consume
// the line token by token. On yield the instruction pointer is parked
// on the return stack; otherwise the stack prompt is printed.
func (vm *VM) interp(line string) bool {
	deadline := vm.millis() + vm.slice.Milliseconds()
	resume := vm.state == stateHold || vm.state == stateIO
	if resume {
		vm.ip = iu(vm.rs.pop())
	} else {
		vm.in, vm.inPos = line, 0
	}
	for {
		if resume {
			vm.nest()
		} else {
			idiom := vm.token()
			if idiom == "" {
				break
			}
			vm.logf("query %q", idiom)
			if !vm.core(idiom) {
				break
			}
		}
		if vm.state == stateIO {
			break
		}
		resume = vm.state == stateHold
		if resume && vm.millis() >= deadline {
			break
		}
	}
	yield := vm.state == stateHold || vm.state == stateIO
	if yield {
		vm.rs.push(du(vm.ip))
	} else if !vm.compile {
		vm.ssDump()
	}
	return yield
}

// sQuote handles both string words: compiling, the opcode plus inline
// bytes go into the definition; interpreting, ." prints the string
// and s" stages the bytes at the write offset as transient storage,
// pushes their address and length, and rewinds the offset.
func (vm *VM) sQuote(op iu) {
	s := vm.scanTo('"')
	if len(s) > 0 {
		s = s[1:]
	}
	if vm.compile {
		vm.addW(op)
		vm.addStr(s)
		return
	}
	if op == opDOTQ {
		vm.print(s)
		return
	}
	h0 := vm.here
	n := vm.addStr(s)
	vm.push(du(h0))
	vm.push(du(n))
	vm.here = h0
}

// load runs an included script with the current call context parked on
// the return stack. The script text is staged in a scratch region
// carved from the top of pmem and the input cursor and output hook are
// restored on every exit path.
func (vm *VM) load(fn string) {
	vm.rs.push(du(vm.ip))
	vm.state = stateNest
	defer func() { vm.ip = iu(vm.rs.pop()) }()

	text, err := vm.include(fn)
	if err != nil {
		vm.print(fn + " load failed!\n")
		return
	}

	adj := align16(len(text) + 1)
	if vm.scratch-adj <= vm.here {
		panic(vmFault("pmem overflow"))
	}
	vm.scratch -= adj
	copy(vm.pmem[vm.scratch:], text)
	vm.pmem[vm.scratch+len(text)] = 0
	staged := vm.cstr(vm.scratch)

	in, inPos, hook := vm.in, vm.inPos, vm.hook
	defer func() {
		vm.scratch += adj
		vm.in, vm.inPos, vm.hook = in, inPos, hook
	}()

	for _, line := range strings.Split(staged, "\n") {
		for vm.interp(line) && vm.state == stateHold {
		}
	}
}
