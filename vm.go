package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"strconv"
	"time"
)

// iu is an instruction unit: one 16-bit cell of threaded code.
// du is a data unit: one parameter-stack cell.
type iu = uint16
type du = int32

const (
	iuSize = 2
	duSize = 4

	ssSize   = 64
	rsSize   = 64
	dictSize = 400
	pmemSize = 32 * 1024
)

// extFlag marks an instruction unit as either a primitive opcode or a
// colon-word call; units with the flag clear are built-in dictionary
// indexes.
const extFlag iu = 0x8000

// Primitive opcodes. Units with extFlag set and a value below maxOp
// dispatch here; at or above maxOp the low 15 bits are a parameter
// field address.
const (
	opEXIT iu = extFlag | iota
	opNOP
	opNEXT
	opLOOP
	opLIT
	opVAR
	opSTR
	opDOTQ
	opBRAN
	opZBRAN
	opVBRAN
	opDOES
	opFOR
	opDO
	opKEY
	maxOp
)

var opNames = [...]string{
	";", "nop", "next", "loop", "lit", "var", "str", "dotq",
	"bran", "0bran", "vbran", "does>", "for", "do", "key",
}

// userArea is the low region of pmem reserved for the BASE and DFLT
// configuration cells, padded to a 16-byte boundary so no parameter
// field address can collide with a primitive opcode.
const userArea = (int(maxOp&^extFlag) + 15) &^ 15

const (
	baseAddr = 0
	dfltAddr = iuSize
)

func isPrim(w iu) bool { return w&extFlag != 0 && w < maxOp }

// vmState drives the interpreter loops: the machine runs while in
// stateNest, and the two yield states carry a saved instruction
// pointer on the return stack between Eval calls.
type vmState int

const (
	stateStop vmState = iota
	stateHold
	stateQuery
	stateNest
	stateIO
)

const appVersion = "goForth v1.0"

const defaultTimeSlice = 10 * time.Millisecond

// VM is a single-task Forth machine. It owns all interpreter state;
// nothing here is safe for concurrent use.
type VM struct {
	ss  stack
	rs  stack
	top du

	dict []word
	pmem []byte
	here int

	// scratch is the floor of the region carved from the top of pmem
	// for staging included scripts.
	scratch int

	ip    iu
	state vmState

	compile bool
	ucase   bool
	done    bool

	in    string
	inPos int

	fout bytes.Buffer
	hook func(channel int, text string)

	inr io.Reader

	logfn func(mess string, args ...interface{})

	millis  func() int64
	sleep   func(d time.Duration)
	rnd     func() du
	include func(name string) (string, error)
	slice   time.Duration
}

// New builds a machine with the built-in dictionary compiled and the
// user area initialized.
func New(opts ...Option) *VM {
	vm := &VM{
		pmem:    make([]byte, pmemSize),
		scratch: pmemSize,
		ss:      stack{name: "data stack", limit: ssSize},
		rs:      stack{name: "return stack", limit: rsSize},
		top:     -1,
		state:   stateQuery,
		slice:   defaultTimeSlice,
	}

	start := time.Now()
	vm.millis = func() int64 { return time.Since(start).Milliseconds() }
	vm.sleep = time.Sleep
	rng := rand.New(rand.NewSource(start.UnixNano()))
	vm.rnd = func() du { return du(rng.Int31()) }
	vm.include = func(name string) (string, error) {
		b, err := ioutil.ReadFile(name)
		return string(b), err
	}

	vm.initUserArea()
	vm.compileBuiltins()

	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
	return vm
}

func (vm *VM) initUserArea() {
	vm.addIU(10) // BASE
	vm.addIU(0)  // DFLT: integer cells
	for vm.here < userArea {
		vm.addIU(0xffff)
	}
}

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

func (vm *VM) print(s string) {
	vm.fout.WriteString(s)
}

func (vm *VM) flush() {
	if vm.fout.Len() == 0 {
		return
	}
	s := vm.fout.String()
	vm.fout.Reset()
	if vm.hook != nil {
		vm.hook(0, s)
	}
}

// push stashes the cached top on the parameter stack and caches v.
func (vm *VM) push(v du) {
	vm.ss.push(vm.top)
	vm.top = v
}

// pop restores the cached top from the parameter stack.
func (vm *VM) pop() du {
	n := vm.top
	vm.top = vm.ss.pop()
	return n
}

func (vm *VM) base() int    { return int(vm.igetIU(baseAddr)) }
func (vm *VM) setBase(b du) { vm.setIU(baseAddr, iu(b)) }

func (vm *VM) fmtDU(v du) string {
	b := vm.base()
	if b < 2 || b > 36 {
		b = 10
	}
	return strconv.FormatInt(int64(v), b)
}

func (vm *VM) fmtUDU(v du) string {
	b := vm.base()
	if b < 2 || b > 36 {
		b = 10
	}
	return strconv.FormatUint(uint64(uint32(v)), b)
}

// ssDump renders the parameter stack in the current base followed by
// the ok prompt. The bottom slot of the backing stack is the cached-top
// seed and is not shown.
func (vm *VM) ssDump() {
	if vm.ss.depth() > 0 {
		for _, v := range vm.ss.v[1:] {
			vm.print(vm.fmtDU(v) + " ")
		}
		vm.print(vm.fmtDU(vm.top) + " ")
	}
	vm.print("-> ok\n")
}

func (vm *VM) abort() {
	vm.top = -1
	vm.ss.clear()
	vm.rs.clear()
}

// vmFault is an internal trap: stack misuse, arena exhaustion, or a
// malformed instruction. Faults unwind to the Eval boundary where they
// are reported on the Forth output stream and clear both stacks.
type vmFault string

func (f vmFault) Error() string { return string(f) }

func faultf(format string, args ...interface{}) vmFault {
	return vmFault(fmt.Sprintf(format, args...))
}

var errBye = errors.New("bye")

// Embedding accessors.

// Base returns the current numeric radix.
func (vm *VM) Base() int { return vm.base() }

// Dflt reports the data-unit flavor cell (0 for integer cells).
func (vm *VM) Dflt() int { return int(vm.igetIU(dfltAddr)) }

// Here returns the current parameter-memory write offset.
func (vm *VM) Here() int { return vm.here }

// Depth returns the number of cells on the parameter stack.
func (vm *VM) Depth() int { return vm.ss.depth() }

// DictLen returns the number of dictionary entries.
func (vm *VM) DictLen() int { return len(vm.dict) }

// Done reports whether bye has been executed.
func (vm *VM) Done() bool { return vm.done }

// Stack returns a copy of the parameter stack, bottom first.
func (vm *VM) Stack() []int {
	out := []int{}
	if vm.ss.depth() > 0 {
		for _, v := range vm.ss.v[1:] {
			out = append(out, int(v))
		}
		out = append(out, int(vm.top))
	}
	return out
}

// Mem returns a copy of the pmem byte range [addr, addr+n).
func (vm *VM) Mem(addr, n int) []byte {
	out := make([]byte, n)
	copy(out, vm.pmem[addr:])
	return out
}

// Feed supplies one character to a machine suspended on key.
func (vm *VM) Feed(c byte) { vm.push(du(c)) }
