package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gaurav-prasanna/cheatbook/cmd"
)

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS env; runtime defaults apply then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	cmd.Execute()
}
