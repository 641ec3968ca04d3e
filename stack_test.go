package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_stack(t *testing.T) {
	t.Run("push pop", func(t *testing.T) {
		s := stack{name: "data stack", limit: 4}
		s.push(1)
		s.push(2)
		assert.Equal(t, 2, s.depth())
		assert.Equal(t, du(2), s.pop())
		assert.Equal(t, du(1), s.pop())
		assert.Equal(t, 0, s.depth())
	})

	t.Run("negative indexing", func(t *testing.T) {
		s := stack{name: "data stack", limit: 4}
		s.push(10)
		s.push(20)
		s.push(30)
		assert.Equal(t, du(30), s.at(-1))
		assert.Equal(t, du(20), s.at(-2))
		assert.Equal(t, du(10), s.at(0))
	})

	t.Run("set", func(t *testing.T) {
		s := stack{name: "data stack", limit: 4}
		s.push(5)
		s.set(-1, 9)
		assert.Equal(t, du(9), s.pop())
	})

	t.Run("underflow traps", func(t *testing.T) {
		s := stack{name: "data stack", limit: 4}
		assert.PanicsWithValue(t, vmFault("data stack underflow"), func() { s.pop() })
		assert.PanicsWithValue(t, vmFault("data stack underflow"), func() { s.at(-1) })
	})

	t.Run("overflow traps", func(t *testing.T) {
		s := stack{name: "return stack", limit: 2}
		s.push(1)
		s.push(2)
		assert.PanicsWithValue(t, vmFault("return stack overflow"), func() { s.push(3) })
	})

	t.Run("clear", func(t *testing.T) {
		s := stack{name: "data stack", limit: 4}
		s.push(1)
		s.push(2)
		s.clear()
		assert.Equal(t, 0, s.depth())
	})
}

func Test_stack_overflow_in_vm(t *testing.T) {
	vm, out := capture()
	evalAll(vm, ": dups begin dup again ;", "1 dups")
	assert.Contains(t, out.String(), "data stack overflow")
	assert.Equal(t, []int{}, vm.Stack())
}
