package main

// unnest pops the return frame. A zero saved pointer means the
// outermost call finished (stop, print the stack afterward); anything
// else is a nested return that the driver resumes (hold).
func (vm *VM) unnest() {
	vm.ip = iu(vm.rs.pop())
	if vm.ip != 0 {
		vm.state = stateHold
	} else {
		vm.state = stateStop
	}
}

// call enters dictionary index w: colon words get a return-stack
// sentinel and run under nest, built-ins run natively.
func (vm *VM) call(w iu) {
	if vm.isUDF(int(w)) {
		vm.rs.push(0)
		vm.ip = vm.dict[w].pfa
		vm.nest()
		return
	}
	if xt := vm.dict[w].xt; xt != nil {
		xt(vm)
	}
}

// nest is the inner interpreter: fetch an instruction unit, advance,
// dispatch. It returns whenever the state leaves stateNest -- on
// unnest, on a key suspension, or when the instruction pointer hits
// the zero guard.
func (vm *VM) nest() {
	vm.state = stateNest
	for vm.state == stateNest && vm.ip != 0 {
		ix := vm.igetIU(int(vm.ip))
		if vm.logfn != nil {
			vm.logf("nest @%04x %04x r:%v s:%v/%v", vm.ip, ix, vm.rs.v, vm.ss.v, vm.top)
		}
		vm.ip += iuSize

		switch ix {
		case opEXIT:
			vm.unnest()

		case opNOP:

		case opNEXT:
			n := vm.rs.at(-1) - 1
			vm.rs.set(-1, n)
			if n > -1 {
				vm.ip = vm.igetIU(int(vm.ip))
			} else {
				vm.rs.pop()
				vm.ip += iuSize
			}

		case opLOOP:
			n := vm.rs.at(-1) + 1
			vm.rs.set(-1, n)
			if vm.rs.at(-2) > n {
				vm.ip = vm.igetIU(int(vm.ip))
			} else {
				vm.rs.pop()
				vm.rs.pop()
				vm.ip += iuSize
			}

		case opLIT:
			vm.push(vm.duGet(int(vm.ip)))
			vm.ip += duSize

		case opVAR:
			vm.push(du(dalign(int(vm.ip))))
			vm.unnest()

		case opSTR:
			s := vm.cstr(int(vm.ip))
			n := strAligned(s)
			vm.push(du(vm.ip))
			vm.push(du(n))
			vm.ip += iu(n)

		case opDOTQ:
			s := vm.cstr(int(vm.ip))
			vm.print(s)
			vm.ip += iu(strAligned(s))

		case opBRAN:
			vm.ip = vm.igetIU(int(vm.ip))

		case opZBRAN:
			if vm.pop() != 0 {
				vm.ip += iuSize
			} else {
				vm.ip = vm.igetIU(int(vm.ip))
			}

		case opVBRAN:
			vm.push(du(dalign(int(vm.ip) + iuSize)))
			if vm.ip = vm.igetIU(int(vm.ip)); vm.ip == 0 {
				vm.unnest()
			}

		case opDOES:
			vm.setIU(int(vm.last().pfa)+iuSize, vm.ip)
			vm.unnest()

		case opFOR:
			vm.rs.push(vm.pop())

		case opDO:
			vm.rs.push(vm.ss.pop())
			vm.rs.push(vm.pop())

		case opKEY:
			vm.state = stateIO

		default:
			if ix&extFlag != 0 {
				vm.rs.push(du(vm.ip))
				vm.ip = ix &^ extFlag
			} else if int(ix) < len(vm.dict) && vm.dict[ix].xt != nil {
				vm.dict[ix].xt(vm)
			} else {
				panic(faultf("invalid instruction %04x @%04x", ix, vm.ip-iuSize))
			}
		}
	}
}
