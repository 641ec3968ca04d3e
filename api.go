package main

import (
	"bufio"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goforth/eforth/internal/panicerr"
)

// Eval processes one input line. It returns true when the machine
// yielded (waiting on a key, or out of time slice) and needs to be
// re-entered with an empty line to finish. Faults clear both stacks
// and abandon the line; bye marks the machine done.
func (vm *VM) Eval(line string) (yield bool) {
	defer func() {
		e := recover()
		switch err := e.(type) {
		case nil:
		case vmFault:
			vm.logf("fault: %v", err)
			vm.print(err.Error() + "\n")
			vm.abort()
			vm.compile = false
			vm.state = stateStop
			yield = false
		case error:
			if err == errBye {
				vm.done = true
				vm.state = stateStop
				yield = false
			} else {
				panic(e)
			}
		default:
			panic(e)
		}
		vm.flush()
	}()
	return vm.interp(line)
}

// Run drives a read-eval loop over the configured input until it is
// exhausted, bye executes, or the context is canceled. The reader
// runs on its own goroutine, so a canceled context stops the eval
// loop at once; the reader sees the cancellation only between lines,
// and Run returns after its pending read completes.
func (vm *VM) Run(ctx context.Context) error {
	return panicerr.Recover("VM", func() error {
		group, gctx := errgroup.WithContext(ctx)
		lines := make(chan string)

		group.Go(func() error {
			defer close(lines)
			sc := bufio.NewScanner(vm.inr)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return sc.Err()
		})

		group.Go(func() error {
			for {
				var line string
				var ok bool
				select {
				case line, ok = <-lines:
					if !ok {
						return nil
					}
				case <-gctx.Done():
					return gctx.Err()
				}

				for yield := vm.Eval(line); yield; yield = vm.Eval("") {
					if vm.state != stateIO {
						continue
					}
					// a key suspension: feed one character from
					// the next input line
					select {
					case next, ok := <-lines:
						if !ok {
							return nil
						}
						c := byte('\n')
						if len(next) > 0 {
							c = next[0]
						}
						vm.Feed(c)
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				if vm.done {
					// unblocks the reader goroutine via gctx
					return errBye
				}
			}
		})

		err := group.Wait()
		if err == errBye {
			return nil
		}
		return err
	})
}
