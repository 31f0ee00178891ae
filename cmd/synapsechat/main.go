// Package main is the entry point for the synapsechat client.
package main

import (
	"fmt"
	"os"

	"github.com/synapsechat/synapsechat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
