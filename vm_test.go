package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forthTestCases []forthTestCase

func (fts forthTestCases) run(t *testing.T) {
	for _, ft := range fts {
		t.Run(ft.name, ft.run)
	}
}

func forthTest(name string) forthTestCase {
	return forthTestCase{name: name, out: &strings.Builder{}}
}

type forthTestCase struct {
	name   string
	opts   []Option
	lines  []string
	out    *strings.Builder
	expect []func(t *testing.T, vm *VM)
}

func (ft forthTestCase) withOptions(opts ...Option) forthTestCase {
	ft.opts = append(ft.opts, opts...)
	return ft
}

func (ft forthTestCase) withInput(lines ...string) forthTestCase {
	ft.lines = append(ft.lines, lines...)
	return ft
}

func (ft forthTestCase) expectStack(values ...int) forthTestCase {
	if values == nil {
		values = []int{}
	}
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, values, vm.Stack(), "expected stack values")
	})
	return ft
}

func (ft forthTestCase) expectOutput(s string) forthTestCase {
	out := ft.out
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, s, out.String(), "expected output")
	})
	return ft
}

func (ft forthTestCase) expectOutputContains(s string) forthTestCase {
	out := ft.out
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Contains(t, out.String(), s, "expected output fragment")
	})
	return ft
}

func (ft forthTestCase) expectCompile(compiling bool) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, compiling, vm.compile, "expected compile flag")
	})
	return ft
}

func (ft forthTestCase) expectThat(fn func(t *testing.T, vm *VM)) forthTestCase {
	ft.expect = append(ft.expect, fn)
	return ft
}

func (ft forthTestCase) run(t *testing.T) {
	out := ft.out
	opts := append([]Option{
		WithOutputFunc(func(_ int, text string) { out.WriteString(text) }),
	}, ft.opts...)
	vm := New(opts...)
	for _, line := range ft.lines {
		for yield := vm.Eval(line); yield && vm.state == stateHold; yield = vm.Eval("") {
		}
	}
	for _, expect := range ft.expect {
		expect(t, vm)
	}
}

func Test_end_to_end(t *testing.T) {
	forthTestCases{
		forthTest("square").
			withInput(": sq dup * ;", "7 sq").
			expectStack(49).
			expectOutputContains("49"),

		forthTest("compile interpret equivalence").
			withInput(": foo 1 2 + ;", "foo", "1 2 +").
			expectStack(3, 3),

		forthTest("radix round trip").
			withInput("255 hex . decimal 255 .").
			expectOutputContains("ff 255 "),

		forthTest("dot quote").
			withInput(`." hello"`).
			expectOutputContains("hello"),

		forthTest("do loop sum").
			withInput(": count 0 10 0 do i + loop ;", "count").
			expectStack(45),

		forthTest("variable update").
			withInput("variable v 5 v ! v @ 3 + v !", "v @").
			expectStack(8),

		forthTest("unknown word in definition").
			withInput(": bad UNKNOWNWORD ;").
			expectOutputContains("UNKNOWNWORD? ").
			expectCompile(false),

		forthTest("unknown word abandons line").
			withInput("1 UNKNOWNWORD 2").
			expectStack(1).
			expectOutputContains("UNKNOWNWORD? "),

		forthTest("ok prompt").
			withInput("1 2").
			expectOutput("1 2 -> ok\n"),

		forthTest("empty line prompt").
			withInput("").
			expectOutput("-> ok\n"),
	}.run(t)
}

func Test_invariants(t *testing.T) {
	var out strings.Builder
	vm := New(WithOutputFunc(func(_ int, text string) { out.WriteString(text) }))

	lines := []string{
		": sq dup * ;",
		"7 sq drop",
		"variable v  13 v !",
		"42 constant answer",
		": fib dup 2 < if exit then dup 1 - fib swap 2 - fib + ;",
		"10 fib drop",
	}
	for _, line := range lines {
		for vm.Eval(line) {
		}
	}

	assert.Equal(t, 0, vm.find("nul "), "sentinel must stay unfindable")
	assert.True(t, vm.ss.depth() >= 0 && vm.ss.depth() <= ssSize)
	assert.True(t, vm.rs.depth() >= 0 && vm.rs.depth() <= rsSize)
	assert.True(t, vm.here <= pmemSize)
	assert.True(t, len(vm.dict) <= dictSize)
	assert.False(t, vm.compile)

	for w := 1; w < len(vm.dict); w++ {
		c := vm.dict[w]
		if c.attr&udfAttr != 0 {
			assert.True(t, int(c.pfa) < vm.here, "pfa in bounds for %q", c.name)
			assert.True(t, int(c.pfa) >= userArea, "pfa above user area for %q", c.name)
		} else {
			require.NotNil(t, c.xt, "built-in %q needs an xt", c.name)
		}
	}
}

func Test_recursion(t *testing.T) {
	forthTestCases{
		forthTest("fibonacci").
			withInput(
				": fib dup 2 < if exit then dup 1 - fib swap 2 - fib + ;",
				"10 fib",
			).
			expectStack(55),

		forthTest("early exit").
			withInput(": t 1 exit 2 ;", "t").
			expectStack(1),
	}.run(t)
}

func Test_stack_faults(t *testing.T) {
	forthTestCases{
		forthTest("underflow reported").
			withInput("drop").
			expectOutputContains("data stack underflow").
			expectStack(),

		forthTest("underflow aborts line").
			withInput("drop", "1 2").
			expectStack(1, 2),

		forthTest("return stack underflow").
			withInput("r>").
			expectOutputContains("return stack underflow").
			expectStack(),

		forthTest("divide by zero").
			withInput("1 0 /").
			expectOutputContains("divide by zero").
			expectStack(),
	}.run(t)
}
