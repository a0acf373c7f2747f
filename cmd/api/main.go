package main

import (
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
