package main

import (
	"os"

	"github.com/solatis/triggerkeeper/cmd/triggerkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
