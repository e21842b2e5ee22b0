package main

import (
	"fmt"
	"os"
)

var (
	// Version can be set with the Go linker.
	Version = "dev"
	// AppName is the name of this app, as displayed in the help
	// text of the root command.
	AppName = "daynight"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
