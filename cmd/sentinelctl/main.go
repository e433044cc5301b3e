package main

import (
	"fmt"
	"os"

	"github.com/Sanjaykumaar123/sentinelnet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sentinelctl:", err)
		os.Exit(1)
	}
}
