package main

import (
	"io"
	"time"

	"github.com/goforth/eforth/internal/flushio"
)

// Option configures a VM at construction time.
type Option interface{ apply(vm *VM) }

type optionFunc func(vm *VM)

func (f optionFunc) apply(vm *VM) { f(vm) }

// WithInput sets the reader the REPL loop consumes line by line.
func WithInput(r io.Reader) Option {
	return optionFunc(func(vm *VM) { vm.inr = r })
}

// WithOutput directs the machine's output to a writer, flushing after
// every Eval.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		wf := flushio.NewWriteFlusher(w)
		vm.hook = func(_ int, text string) {
			io.WriteString(wf, text)
			wf.Flush()
		}
	})
}

// WithOutputFunc installs a raw output callback; the channel argument
// is 0 for console text.
func WithOutputFunc(fn func(channel int, text string)) Option {
	return optionFunc(func(vm *VM) { vm.hook = fn })
}

// WithTee mirrors output into an additional writer.
func WithTee(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		prev := vm.hook
		wf := flushio.NewWriteFlusher(w)
		vm.hook = func(ch int, text string) {
			if prev != nil {
				prev(ch, text)
			}
			io.WriteString(wf, text)
			wf.Flush()
		}
	})
}

// WithLogf enables trace logging.
func WithLogf(fn func(mess string, args ...interface{})) Option {
	return optionFunc(func(vm *VM) { vm.logfn = fn })
}

// WithClock overrides the millisecond clock used by ms and the time
// slice.
func WithClock(fn func() int64) Option {
	return optionFunc(func(vm *VM) { vm.millis = fn })
}

// WithSleep overrides the blocking delay used by the delay word.
func WithSleep(fn func(d time.Duration)) Option {
	return optionFunc(func(vm *VM) { vm.sleep = fn })
}

// WithRand overrides the rnd source.
func WithRand(fn func() du) Option {
	return optionFunc(func(vm *VM) { vm.rnd = fn })
}

// WithInclude overrides the script loader used by included.
func WithInclude(fn func(name string) (string, error)) Option {
	return optionFunc(func(vm *VM) { vm.include = fn })
}

// WithTimeSlice sets how long a single Eval may run before yielding.
func WithTimeSlice(d time.Duration) Option {
	return optionFunc(func(vm *VM) { vm.slice = d })
}
