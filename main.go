package main

import (
	"os"

	"github.com/christianmorkeberg/group25/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
