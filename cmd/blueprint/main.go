package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/blueprint/cmd/blueprint/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	if exit, ok := err.(cmd.ExitError); ok {
		os.Exit(int(exit))
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
