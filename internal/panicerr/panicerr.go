// Package panicerr converts panics into errors at an API boundary.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f, converting any panic into a returned Panic error.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = Panic{name: name, value: e, stack: debug.Stack()}
		}
	}()
	return f()
}

// Panic is a recovered panic carrying its origin and stack.
type Panic struct {
	name  string
	value interface{}
	stack []byte
}

func (p Panic) Error() string {
	return fmt.Sprint(p)
}

func (p Panic) Format(f fmt.State, c rune) {
	if p.name == "" {
		fmt.Fprintf(f, "paniced: %v", p.value)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", p.name, p.value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\npanic stack: %s", p.stack)
	}
}

func (p Panic) Unwrap() error {
	err, _ := p.value.(error)
	return err
}

// Stack returns the captured stacktrace if err is a recovered panic.
func Stack(err error) string {
	var p Panic
	if errors.As(err, &p) {
		return string(p.stack)
	}
	return ""
}
