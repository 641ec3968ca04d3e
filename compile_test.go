package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_defining_words(t *testing.T) {
	forthTestCases{
		forthTest("variable").
			withInput("variable x", "7 x !", "x @").
			expectStack(7),

		forthTest("variable starts at zero").
			withInput("variable x", "x @").
			expectStack(0),

		forthTest("plus store").
			withInput("variable x", "5 x !  3 x +!", "x @").
			expectStack(8),

		forthTest("question prints cell").
			withInput("variable x  9 x !  x ?").
			expectOutputContains("9 "),

		forthTest("constant").
			withInput("42 constant y", "y").
			expectStack(42),

		forthTest("create does").
			withInput(": const create , does> @ ;", "99 const z", "z").
			expectStack(99),

		forthTest("create without does is a data label").
			withInput("create buf 1 , 2 ,", "buf @").
			expectStack(1),

		forthTest("create allot th").
			withInput("create arr 4 cells allot", "5 arr 2 th !  arr 2 th @").
			expectStack(5),

		forthTest("comma compiles cells").
			withInput("create pair 3 , 4 ,", "pair @  pair 1 th @").
			expectStack(3, 4),

		forthTest("missing name").
			withInput(":").
			expectOutputContains(" name?").
			expectCompile(false),

		forthTest("redefinition warns and wins").
			withInput(": x 1 ;", ": x 2 ;", "x").
			expectStack(2).
			expectOutputContains("x reDef? "),

		forthTest("to updates a constant").
			withInput("31416 constant pi", "355 to pi", "pi").
			expectStack(355),

		forthTest("to inside a definition").
			withInput("10 constant limit", ": raise 20 to limit ;", "raise limit").
			expectStack(20),

		forthTest("is aliases an xt").
			withInput("' negate is abs", "-5 negate").
			expectStack(5),
	}.run(t)
}

func Test_metacompiler(t *testing.T) {
	forthTestCases{
		forthTest("tick pushes a word index").
			withInput("' dup").
			expectThat(func(t *testing.T, vm *VM) {
				assert.Equal(t, []int{vm.find("dup")}, vm.Stack())
			}),

		forthTest("tick exec").
			withInput("3 ' dup exec *").
			expectStack(9),

		forthTest("exec runs a colon word").
			withInput(": sq dup * ;", "6 ' sq exec").
			expectStack(36),

		forthTest("immediate words run while compiling").
			withInput(": answer 42 ; immediate", ": quiz answer ;").
			expectStack(42),

		forthTest("bracket drops to interpret mode").
			withInput(": t [ 1 2 + ] ;").
			expectStack(3),
	}.run(t)
}

func Test_forget_boot(t *testing.T) {
	forthTestCases{
		forthTest("forget truncates dict and pmem").
			withInput(": aa 1 ;", ": bb 2 ;", "forget aa").
			expectThat(func(t *testing.T, vm *VM) {
				assert.Equal(t, 0, vm.find("aa"))
				assert.Equal(t, 0, vm.find("bb"))
			}),

		forthTest("forget keeps earlier words").
			withInput(": aa 1 ;", ": bb 2 ;", "forget bb", "aa").
			expectStack(1).
			expectThat(func(t *testing.T, vm *VM) {
				assert.NotEqual(t, 0, vm.find("aa"))
				assert.Equal(t, 0, vm.find("bb"))
			}),

		forthTest("redefine after forget").
			withInput(": aa 1 ;", "forget aa", ": aa 5 ;", "aa").
			expectStack(5),

		forthTest("boot clears all user words").
			withInput(": aa 1 ;", "variable v", "boot").
			expectThat(func(t *testing.T, vm *VM) {
				assert.Equal(t, 0, vm.find("aa"))
				assert.Equal(t, 0, vm.find("v"))
				assert.Equal(t, userArea, vm.Here())
				assert.NotEqual(t, 0, vm.find("boot"))
			}),
	}.run(t)
}

func Test_pmem_layout(t *testing.T) {
	t.Run("colon word header", func(t *testing.T) {
		vm := New()
		h0 := vm.Here()
		vm.Eval(": t1 1 + ;")
		w := vm.find("t1")
		assert.NotEqual(t, 0, w)
		assert.True(t, vm.isUDF(w))
		assert.Equal(t, h0, vm.dict[w].nfa)
		assert.Equal(t, "t1", vm.cstr(vm.dict[w].nfa))
		assert.Equal(t, h0+strAligned("t1"), int(vm.dict[w].pfa))

		// body: lit, payload, built-in +, exit
		pfa := int(vm.dict[w].pfa)
		assert.Equal(t, opLIT, vm.igetIU(pfa))
		assert.Equal(t, du(1), vm.duGet(pfa+iuSize))
		assert.Equal(t, iu(vm.find("+")), vm.igetIU(pfa+iuSize+duSize))
		assert.Equal(t, opEXIT, vm.igetIU(pfa+2*iuSize+duSize))
	})

	t.Run("colon call reference", func(t *testing.T) {
		vm := New()
		vm.Eval(": inner 1 ;")
		vm.Eval(": outer inner ;")
		inner := vm.find("inner")
		outer := vm.find("outer")
		ref := vm.igetIU(int(vm.dict[outer].pfa))
		assert.Equal(t, vm.dict[inner].pfa|extFlag, ref)
		assert.False(t, isPrim(ref))
	})

	t.Run("branch targets resolve", func(t *testing.T) {
		vm := New()
		vm.Eval(": t if 1 else 2 then ;")
		pfa := int(vm.dict[vm.find("t")].pfa)
		assert.Equal(t, opZBRAN, vm.igetIU(pfa))
		elseTarget := int(vm.igetIU(pfa + iuSize))
		assert.True(t, elseTarget > pfa && elseTarget < vm.Here())
	})
}
