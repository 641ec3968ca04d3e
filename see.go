package main

import (
	"fmt"
	"strings"
)

// pfa2didx reverse-maps an instruction unit to a dictionary index:
// primitives map to themselves, colon calls by parameter field
// address, built-ins by index.
func (vm *VM) pfa2didx(ix iu) int {
	if isPrim(ix) {
		return int(ix)
	}
	if ix&extFlag != 0 {
		pfa := ix &^ extFlag
		for i := len(vm.dict) - 1; i > 0; i-- {
			if vm.isUDF(i) && vm.dict[i].pfa == pfa {
				return i
			}
		}
		return 0
	}
	if int(ix) > 0 && int(ix) < len(vm.dict) && !vm.isUDF(int(ix)) {
		return int(ix)
	}
	return 0
}

// pfa2nvar sizes the data field of a variable or create word: the
// bytes between its header and the next word's name field (or the
// write offset for the newest word).
func (vm *VM) pfa2nvar(pfa int) int {
	w := vm.igetIU(pfa)
	if w != opVAR && w != opVBRAN {
		return 0
	}
	i0 := vm.pfa2didx(iu(pfa) | extFlag)
	if i0 == 0 {
		return 0
	}
	p1 := vm.here
	if i0+1 < len(vm.dict) {
		p1 = vm.dict[i0+1].nfa
	}
	n := p1 - pfa - iuSize
	if w == opVBRAN {
		n -= iuSize
	}
	return n
}

func (vm *VM) opOrName(w int) string {
	if isPrim(iu(w)) {
		return opNames[iu(w)&^extFlag]
	}
	return vm.dict[w].name
}

// toS renders one decompiled instruction at ip: inline payloads for
// literals and strings, data cells for variables, branch targets for
// the looping and branching opcodes.
func (vm *VM) toS(w, ip int) {
	ip += iuSize
	switch iu(w) {
	case opLIT:
		vm.print(vm.fmtDU(vm.duGet(ip)) + " ( lit )")
	case opSTR:
		vm.print("s\" " + vm.cstr(ip) + "\"")
	case opDOTQ:
		vm.print(".\" " + vm.cstr(ip) + "\"")
	case opVAR, opVBRAN:
		ix := ip
		if iu(w) == opVBRAN {
			ix += iuSize
		}
		a := dalign(ix)
		for i, n := 0, vm.pfa2nvar(ip-iuSize); i < n; i += duSize {
			vm.print(vm.fmtDU(vm.duGet(a+i)) + " ")
		}
		vm.print(vm.opOrName(w))
	default:
		vm.print(vm.opOrName(w))
	}
	switch iu(w) {
	case opNEXT, opLOOP, opBRAN, opZBRAN, opVBRAN:
		vm.print(fmt.Sprintf(" %04x", vm.igetIU(ip)))
	}
}

// seeWord decompiles the threaded code starting at a parameter field
// address, one instruction per line.
func (vm *VM) seeWord(pfa int) {
	for ip := pfa; ; {
		w := vm.pfa2didx(vm.igetIU(ip))
		if w == 0 {
			break
		}
		vm.print("\n  ")
		vm.toS(w, ip)
		if iu(w) == opEXIT || iu(w) == opVAR {
			return
		}
		ip += iuSize
		switch iu(w) {
		case opLIT:
			ip += duSize
		case opSTR, opDOTQ:
			ip += strAligned(vm.cstr(ip))
		case opBRAN, opZBRAN, opNEXT, opLOOP:
			ip += iuSize
		case opVBRAN:
			t := int(vm.igetIU(ip))
			if t == 0 {
				return
			}
			ip = t
		}
	}
}

func (vm *VM) wordsDump() {
	const width = 60
	sz := 0
	for _, c := range vm.dict {
		nm := c.name
		if strings.HasSuffix(nm, " ") {
			continue
		}
		sz += len(nm) + 2
		vm.print("  " + nm)
		if sz > width {
			sz = 0
			vm.print("\n")
		}
	}
	vm.print("\n")
}

func (vm *VM) memDump(p0, sz int) {
	end := align16(p0 + sz)
	for i := align16(p0); i <= end && i+16 <= pmemSize; i += 16 {
		var b strings.Builder
		fmt.Fprintf(&b, "%04x: ", i)
		for j := 0; j < 16; j++ {
			fmt.Fprintf(&b, "%02x", vm.pmem[i+j])
			if j%4 == 3 {
				b.WriteByte(' ')
			}
		}
		for j := 0; j < 16; j++ {
			c := vm.pmem[i+j] & 0x7f
			if c == 0x7f || c < 0x20 {
				c = '_'
			}
			b.WriteByte(c)
		}
		b.WriteByte('\n')
		vm.print(b.String())
	}
}

func (vm *VM) dictDump() {
	for i, c := range vm.dict {
		xt := i
		if c.attr&udfAttr != 0 {
			xt = int(c.pfa)
		}
		vm.print(fmt.Sprintf("%3d> attr=%x, xt=%04x, name=%s\n", i, c.attr, xt, c.name))
	}
}

func (vm *VM) memStat() {
	vm.print(fmt.Sprintf("%s\n  dict: %v/%v\n  ss  : %v/%v\n  rs  : %v/%v\n  mem : %v/%v\n",
		appVersion,
		len(vm.dict), dictSize,
		vm.ss.depth(), ssSize,
		vm.rs.depth(), rsSize,
		vm.here, pmemSize))
}
