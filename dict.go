package main

import "strings"

const (
	udfAttr uint8 = 1 << iota
	immAttr
)

// word is one dictionary record. Built-ins carry an xt function and no
// name field in pmem (nfa -1); colon words carry the pmem offsets of
// their name and threaded code.
type word struct {
	name string
	nfa  int
	xt   func(vm *VM)
	pfa  iu
	attr uint8
}

// find scans the dictionary backward for a name, honoring the ucase
// flag. Index 0 is the "nul " sentinel, so 0 always means not found.
func (vm *VM) find(name string) int {
	for i := len(vm.dict) - 1; i > 0; i-- {
		if vm.nameEq(vm.dict[i].name, name) {
			vm.logf("find %q -> %v", name, i)
			return i
		}
	}
	return 0
}

func (vm *VM) nameEq(a, b string) bool {
	if vm.ucase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (vm *VM) isUDF(w int) bool { return vm.dict[w].attr&udfAttr != 0 }
func (vm *VM) isImm(w int) bool { return vm.dict[w].attr&immAttr != 0 }

func (vm *VM) last() *word { return &vm.dict[len(vm.dict)-1] }

// colon opens a new user-defined word: name bytes go into pmem, the
// record's parameter field starts at the write offset after them.
func (vm *VM) colon(name string) {
	if len(vm.dict) >= dictSize {
		panic(vmFault("dictionary overflow"))
	}
	nfa := vm.here
	vm.addStr(name)
	vm.dict = append(vm.dict, word{
		name: name,
		nfa:  nfa,
		pfa:  iu(vm.here),
		attr: udfAttr,
	})
}

// defWord creates a colon header, reporting an empty or duplicated
// name. Redefinition still creates the new word; find sees it first.
func (vm *VM) defWord(name string) bool {
	if name == "" {
		vm.print(" name?\n")
		return false
	}
	if vm.find(name) != 0 {
		vm.print(name + " reDef? \n")
	}
	vm.colon(name)
	return true
}

// addW compiles a reference to dictionary index w (or a raw primitive
// unit) into pmem.
func (vm *VM) addW(w iu) {
	var ref iu
	switch {
	case isPrim(w):
		ref = w
	case vm.isUDF(int(w)):
		ref = vm.dict[w].pfa | extFlag
	default:
		ref = w
	}
	vm.logf("add_w(%v) => %04x", w, ref)
	vm.addIU(ref)
}

// addVar lays out a variable or create header after the name field:
// the opcode, a branch-target pad for vbran, alignment, and for var one
// zeroed cell.
func (vm *VM) addVar(op iu) {
	vm.addW(op)
	if op == opVBRAN {
		vm.addIU(0)
	}
	vm.here = dalign(vm.here)
	if op == opVAR {
		vm.addDU(0)
	}
}

// forgetWord truncates the dictionary and pmem back to the named word,
// or back to the boot fence when the word precedes it.
func (vm *VM) forgetWord(name string) {
	w := vm.find(name)
	if w == 0 {
		return
	}
	b := vm.find("boot") + 1
	if w > b {
		vm.here = vm.dict[w].nfa
		vm.dict = vm.dict[:w]
	} else {
		vm.here = userArea
		vm.dict = vm.dict[:b]
	}
}
