package main

import (
	"bytes"
	"encoding/binary"
)

func align2(n int) int  { return (n + 1) &^ 1 }
func align16(n int) int { return (n + 15) &^ 15 }

// dalign aligns a pmem offset for a data-unit access. Instruction
// units keep the arena 2-byte aligned, which is all the 32-bit cells
// need here.
func dalign(n int) int { return align2(n) }

// strAligned is the inline-string footprint: length plus NUL, rounded
// up so the following instruction unit stays aligned.
func strAligned(s string) int { return align2(len(s) + 1) }

func (vm *VM) igetIU(a int) iu {
	return binary.LittleEndian.Uint16(vm.pmem[a:])
}

func (vm *VM) setIU(a int, w iu) {
	binary.LittleEndian.PutUint16(vm.pmem[a:], w)
}

func (vm *VM) duGet(a int) du {
	return du(binary.LittleEndian.Uint32(vm.pmem[a:]))
}

func (vm *VM) duSet(a int, v du) {
	binary.LittleEndian.PutUint32(vm.pmem[a:], uint32(v))
}

// cstr reads the NUL-terminated string at a pmem offset.
func (vm *VM) cstr(a int) string {
	if i := bytes.IndexByte(vm.pmem[a:], 0); i >= 0 {
		return string(vm.pmem[a : a+i])
	}
	return string(vm.pmem[a:])
}

func (vm *VM) grow(n int) int {
	if vm.here+n > vm.scratch {
		panic(vmFault("pmem overflow"))
	}
	a := vm.here
	vm.here += n
	return a
}

func (vm *VM) addIU(w iu) {
	vm.setIU(vm.grow(iuSize), w)
}

func (vm *VM) addDU(v du) {
	vm.duSet(vm.grow(duSize), v)
}

// addStr appends the string bytes plus NUL, padded to IU alignment.
// Returns the padded length.
func (vm *VM) addStr(s string) int {
	n := strAligned(s)
	a := vm.grow(n)
	copy(vm.pmem[a:], s)
	for i := a + len(s); i < a+n; i++ {
		vm.pmem[i] = 0
	}
	return n
}

// setjmp back-patches the branch placeholder at a with the current
// write offset.
func (vm *VM) setjmp(a int) {
	vm.setIU(a, iu(vm.here))
}
