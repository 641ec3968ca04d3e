package main

import (
	"fmt"
	"strings"
	"time"
)

func boolDU(f bool) du {
	if f {
		return -1
	}
	return 0
}

// compileBuiltins populates the dictionary. Entry 0 is a sentinel so
// find can use 0 as its not-found result; everything after it is
// addressable by index from compiled code.
func (vm *VM) compileBuiltins() {
	code := func(name string, xt func(vm *VM)) {
		vm.dict = append(vm.dict, word{name: name, nfa: -1, xt: xt})
	}
	immd := func(name string, xt func(vm *VM)) {
		vm.dict = append(vm.dict, word{name: name, nfa: -1, xt: xt, attr: immAttr})
	}

	code("nul ", func(vm *VM) {})

	// stack ops
	code("dup", func(vm *VM) { vm.push(vm.top) })
	code("drop", func(vm *VM) { vm.top = vm.ss.pop() })
	code("over", func(vm *VM) { vm.push(vm.ss.at(-1)) })
	code("swap", func(vm *VM) { n := vm.ss.pop(); vm.push(n) })
	code("rot", func(vm *VM) {
		n := vm.ss.pop()
		m := vm.ss.pop()
		vm.ss.push(n)
		vm.push(m)
	})
	code("-rot", func(vm *VM) {
		n := vm.ss.pop()
		m := vm.ss.pop()
		vm.push(m)
		vm.push(n)
	})
	code("nip", func(vm *VM) { vm.ss.pop() })
	code("pick", func(vm *VM) { i := vm.top; vm.top = vm.ss.at(-int(i)) })

	code("2dup", func(vm *VM) { vm.push(vm.ss.at(-1)); vm.push(vm.ss.at(-1)) })
	code("2drop", func(vm *VM) { vm.ss.pop(); vm.top = vm.ss.pop() })
	code("2over", func(vm *VM) { vm.push(vm.ss.at(-3)); vm.push(vm.ss.at(-3)) })
	code("2swap", func(vm *VM) {
		n := vm.ss.pop()
		m := vm.ss.pop()
		l := vm.ss.pop()
		vm.ss.push(n)
		vm.push(l)
		vm.push(m)
	})
	code("?dup", func(vm *VM) {
		if vm.top != 0 {
			vm.push(vm.top)
		}
	})

	// ALU ops
	code("+", func(vm *VM) { vm.top += vm.ss.pop() })
	code("*", func(vm *VM) { vm.top *= vm.ss.pop() })
	code("-", func(vm *VM) { vm.top = vm.ss.pop() - vm.top })
	code("/", func(vm *VM) { vm.top = vm.ss.pop() / vm.nonzero(vm.top) })
	code("mod", func(vm *VM) { vm.top = vm.ss.pop() % vm.nonzero(vm.top) })
	code("*/", func(vm *VM) {
		vm.top = du(int64(vm.ss.pop()) * int64(vm.ss.pop()) / int64(vm.nonzero(vm.top)))
	})
	code("/mod", func(vm *VM) {
		n := vm.ss.pop()
		t := vm.nonzero(vm.top)
		vm.ss.push(n % t)
		vm.top = n / t
	})
	code("*/mod", func(vm *VM) {
		n := int64(vm.ss.pop()) * int64(vm.ss.pop())
		t := int64(vm.nonzero(vm.top))
		vm.ss.push(du(n % t))
		vm.top = du(n / t)
	})
	code("and", func(vm *VM) { vm.top &= vm.ss.pop() })
	code("or", func(vm *VM) { vm.top |= vm.ss.pop() })
	code("xor", func(vm *VM) { vm.top ^= vm.ss.pop() })
	code("abs", func(vm *VM) {
		if vm.top < 0 {
			vm.top = -vm.top
		}
	})
	code("negate", func(vm *VM) { vm.top = -vm.top })
	code("invert", func(vm *VM) { vm.top = ^vm.top })
	code("rshift", func(vm *VM) { vm.top = du(uint32(vm.ss.pop()) >> uint32(vm.top)) })
	code("lshift", func(vm *VM) { vm.top = du(uint32(vm.ss.pop()) << uint32(vm.top)) })
	code("max", func(vm *VM) {
		if n := vm.ss.pop(); n > vm.top {
			vm.top = n
		}
	})
	code("min", func(vm *VM) {
		if n := vm.ss.pop(); n < vm.top {
			vm.top = n
		}
	})
	code("2*", func(vm *VM) { vm.top *= 2 })
	code("2/", func(vm *VM) { vm.top /= 2 })
	code("1+", func(vm *VM) { vm.top++ })
	code("1-", func(vm *VM) { vm.top-- })

	// logic ops: Forth booleans, -1 true and 0 false
	code("0=", func(vm *VM) { vm.top = boolDU(vm.top == 0) })
	code("0<", func(vm *VM) { vm.top = boolDU(vm.top < 0) })
	code("0>", func(vm *VM) { vm.top = boolDU(vm.top > 0) })
	code("=", func(vm *VM) { vm.top = boolDU(vm.ss.pop() == vm.top) })
	code(">", func(vm *VM) { vm.top = boolDU(vm.ss.pop() > vm.top) })
	code("<", func(vm *VM) { vm.top = boolDU(vm.ss.pop() < vm.top) })
	code("<>", func(vm *VM) { vm.top = boolDU(vm.ss.pop() != vm.top) })
	code(">=", func(vm *VM) { vm.top = boolDU(vm.ss.pop() >= vm.top) })
	code("<=", func(vm *VM) { vm.top = boolDU(vm.ss.pop() <= vm.top) })
	code("u<", func(vm *VM) { vm.top = boolDU(uint32(vm.ss.pop()) < uint32(vm.top)) })
	code("u>", func(vm *VM) { vm.top = boolDU(uint32(vm.ss.pop()) > uint32(vm.top)) })

	// IO ops
	code("case!", func(vm *VM) { vm.ucase = vm.pop() == 0 })
	code("base", func(vm *VM) { vm.push(baseAddr) })
	code("decimal", func(vm *VM) { vm.setBase(10) })
	code("hex", func(vm *VM) { vm.setBase(16) })
	code("bl", func(vm *VM) { vm.print(" ") })
	code("cr", func(vm *VM) { vm.print("\n") })
	code(".", func(vm *VM) { vm.print(vm.fmtDU(vm.pop()) + " ") })
	code("u.", func(vm *VM) { vm.print(vm.fmtUDU(vm.pop()) + " ") })
	code(".r", func(vm *VM) {
		w := int(vm.pop())
		vm.print(fmt.Sprintf("%*s", w, vm.fmtDU(vm.pop())))
	})
	code("u.r", func(vm *VM) {
		w := int(vm.pop())
		vm.print(fmt.Sprintf("%*s", w, vm.fmtUDU(vm.pop())))
	})
	code("type", func(vm *VM) {
		vm.pop()
		vm.print(vm.cstr(int(vm.pop())))
	})
	immd("key", func(vm *VM) {
		if vm.compile {
			vm.addW(opKEY)
		} else {
			vm.state = stateIO
		}
	})
	code("emit", func(vm *VM) { vm.fout.WriteRune(rune(vm.pop())) })
	code("space", func(vm *VM) { vm.print(" ") })
	code("spaces", func(vm *VM) {
		if n := int(vm.pop()); n > 0 {
			vm.print(strings.Repeat(" ", n))
		}
	})

	// literal ops
	immd("[", func(vm *VM) { vm.compile = false })
	code("]", func(vm *VM) { vm.compile = true })
	immd("(", func(vm *VM) { vm.scanTo(')') })
	immd(".(", func(vm *VM) { vm.print(vm.scanTo(')')) })
	immd("\\", func(vm *VM) { vm.scanTo('\n') })
	immd("s\"", func(vm *VM) { vm.sQuote(opSTR) })
	immd(".\"", func(vm *VM) { vm.sQuote(opDOTQ) })

	// branching: if...then, if...else...then
	immd("if", func(vm *VM) {
		vm.addW(opZBRAN)
		vm.push(du(vm.here))
		vm.addIU(0)
	})
	immd("else", func(vm *VM) {
		vm.addW(opBRAN)
		h := vm.here
		vm.addIU(0)
		vm.setjmp(int(vm.pop()))
		vm.push(du(h))
	})
	immd("then", func(vm *VM) { vm.setjmp(int(vm.pop())) })

	// begin...again, begin...f until, begin...f while...repeat
	immd("begin", func(vm *VM) { vm.push(du(vm.here)) })
	immd("again", func(vm *VM) {
		vm.addW(opBRAN)
		vm.addIU(iu(vm.pop()))
	})
	immd("until", func(vm *VM) {
		vm.addW(opZBRAN)
		vm.addIU(iu(vm.pop()))
	})
	immd("while", func(vm *VM) {
		vm.addW(opZBRAN)
		vm.push(du(vm.here))
		vm.addIU(0)
	})
	immd("repeat", func(vm *VM) {
		vm.addW(opBRAN)
		t := vm.pop()
		vm.addIU(iu(vm.pop()))
		vm.setjmp(int(t))
	})

	// for...next, for...aft...then...next
	immd("for", func(vm *VM) {
		vm.addW(opFOR)
		vm.push(du(vm.here))
	})
	immd("next", func(vm *VM) {
		vm.addW(opNEXT)
		vm.addIU(iu(vm.pop()))
	})
	immd("aft", func(vm *VM) {
		vm.pop()
		vm.addW(opBRAN)
		h := vm.here
		vm.addIU(0)
		vm.push(du(vm.here))
		vm.push(du(h))
	})

	// do...loop
	immd("do", func(vm *VM) {
		vm.addW(opDO)
		vm.push(du(vm.here))
	})
	code("i", func(vm *VM) { vm.push(vm.rs.at(-1)) })
	code("leave", func(vm *VM) {
		vm.rs.pop()
		vm.rs.pop()
		vm.unnest()
	})
	immd("loop", func(vm *VM) {
		vm.addW(opLOOP)
		vm.addIU(iu(vm.pop()))
	})

	// return stack ops
	code(">r", func(vm *VM) { vm.rs.push(vm.pop()) })
	code("r>", func(vm *VM) { vm.push(vm.rs.pop()) })
	code("r@", func(vm *VM) { vm.push(vm.rs.at(-1)) })

	// compiler ops
	code(":", func(vm *VM) { vm.compile = vm.defWord(vm.token()) })
	immd(";", func(vm *VM) {
		vm.addW(opEXIT)
		vm.compile = false
	})
	code("exit", func(vm *VM) { vm.unnest() })
	code("variable", func(vm *VM) {
		if vm.defWord(vm.token()) {
			vm.addVar(opVAR)
		}
	})
	code("constant", func(vm *VM) {
		if vm.defWord(vm.token()) {
			vm.addW(opLIT)
			vm.addDU(vm.pop())
			vm.addW(opEXIT)
		}
	})
	immd("immediate", func(vm *VM) { vm.last().attr |= immAttr })

	// metacompiler
	code("exec", func(vm *VM) { vm.call(iu(vm.pop())) })
	code("create", func(vm *VM) {
		if vm.defWord(vm.token()) {
			vm.addVar(opVBRAN)
		}
	})
	immd("does>", func(vm *VM) { vm.addW(opDOES) })
	immd("to", func(vm *VM) {
		var w int
		if vm.state == stateQuery {
			w = vm.find(vm.token())
		} else {
			w = int(vm.pop())
		}
		if w == 0 {
			return
		}
		if vm.compile {
			vm.addW(opLIT)
			vm.addDU(du(w))
			vm.addW(iu(vm.find("to")))
		} else {
			vm.duSet(int(vm.dict[w].pfa)+iuSize, vm.pop())
		}
	})
	immd("is", func(vm *VM) {
		var w int
		if vm.state == stateQuery {
			w = vm.find(vm.token())
		} else {
			w = int(vm.pop())
		}
		if w == 0 {
			return
		}
		if vm.compile {
			vm.addW(opLIT)
			vm.addDU(du(w))
			vm.addW(iu(vm.find("is")))
		} else {
			t := int(vm.pop())
			if t <= 0 || t >= len(vm.dict) {
				panic(faultf("is: bad word index %v", t))
			}
			vm.dict[t].xt = vm.dict[w].xt
		}
	})

	// memory access
	code("@", func(vm *VM) {
		w := int(vm.pop())
		if w < userArea {
			vm.push(du(vm.igetIU(w)))
		} else {
			vm.push(vm.duGet(w))
		}
	})
	code("!", func(vm *VM) {
		w := int(vm.pop())
		vm.duSet(w, vm.pop())
	})
	code(",", func(vm *VM) { vm.addDU(vm.pop()) })
	code("n,", func(vm *VM) { vm.addIU(iu(vm.pop())) })
	code("cells", func(vm *VM) { vm.top *= duSize })
	code("allot", func(vm *VM) {
		n := int(vm.pop())
		for i := 0; i < n; i += duSize {
			vm.addDU(0)
		}
	})
	code("th", func(vm *VM) {
		n := vm.pop()
		vm.top += n * duSize
	})
	code("+!", func(vm *VM) {
		w := int(vm.pop())
		vm.duSet(w, vm.duGet(w)+vm.pop())
	})
	code("?", func(vm *VM) {
		w := int(vm.pop())
		vm.print(vm.fmtDU(vm.duGet(w)) + " ")
	})

	// debug ops
	code("abort", func(vm *VM) { vm.abort() })
	code("here", func(vm *VM) { vm.push(du(vm.here)) })
	code("'", func(vm *VM) {
		if w := vm.find(vm.token()); w != 0 {
			vm.push(du(w))
		}
	})
	code(".s", func(vm *VM) { vm.ssDump() })
	code("depth", func(vm *VM) { n := du(vm.ss.depth()); vm.push(n) })
	code("r", func(vm *VM) { n := du(vm.rs.depth()); vm.push(n) })
	code("words", func(vm *VM) { vm.wordsDump() })
	code("see", func(vm *VM) {
		w := vm.find(vm.token())
		if w == 0 {
			return
		}
		vm.print(": " + vm.dict[w].name)
		if vm.isUDF(w) {
			vm.seeWord(int(vm.dict[w].pfa))
		} else {
			vm.print(" ( built-ins ) ;")
		}
		vm.print("\n")
	})
	code("dump", func(vm *VM) {
		n := int(vm.pop())
		vm.memDump(int(vm.pop()), n)
	})
	code("dict", func(vm *VM) { vm.dictDump() })
	code("forget", func(vm *VM) { vm.forgetWord(vm.token()) })

	// OS ops
	code("mstat", func(vm *VM) { vm.memStat() })
	code("ms", func(vm *VM) { vm.push(du(vm.millis())) })
	code("rnd", func(vm *VM) { vm.push(vm.rnd()) })
	code("delay", func(vm *VM) { vm.sleep(time.Duration(vm.pop()) * time.Millisecond) })
	code("included", func(vm *VM) {
		vm.pop()
		vm.load(vm.cstr(int(vm.pop())))
	})
	code("bye", func(vm *VM) { panic(errBye) })

	code("boot", func(vm *VM) {
		vm.dict = vm.dict[:vm.find("boot")+1]
		vm.here = userArea
	})
}

func (vm *VM) nonzero(v du) du {
	if v == 0 {
		panic(vmFault("divide by zero"))
	}
	return v
}
