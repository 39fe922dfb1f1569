package main

import (
	"fmt"
	"os"

	"exitlayer/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "exitlayer:", err)
		os.Exit(1)
	}
}
