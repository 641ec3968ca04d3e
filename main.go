package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

func main() {
	var timeout time.Duration
	var trace bool
	var expr string
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.StringVar(&expr, "e", "", "evaluate an expression and exit")
	flag.Parse()

	opts := []Option{
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
	}
	if trace {
		opts = append(opts, WithLogf(log.Printf))
	}
	vm := New(opts...)

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Println(appVersion)
	for _, fn := range flag.Args() {
		vm.Eval(fmt.Sprintf("s\" %s\" included", fn))
	}
	if expr != "" {
		for yield := vm.Eval(expr); yield && vm.state == stateHold; yield = vm.Eval("") {
		}
		return
	}
	if err := vm.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
	fmt.Println("done!")
}
