package main

import (
	"os"

	"github.com/solatis/querytree/cmd/querytree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
