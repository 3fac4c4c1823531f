package main

import (
	"os"

	"github.com/ahmedNJ467/koormatics-dispatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
