// Package main is the entry point for the remotec binary.
//
// remotec launches RDP, SSH, tunnel and remote-command sessions from named
// profiles in a single config file.
//
// Usage:
//
//	remotec ssh <name>          # open an interactive ssh session
//	remotec rdp <name> --stdout # print the generated .rdp file
//	remotec tunnel <name>       # hold port forwards open
//	remotec list --recent       # list profiles, most recently used first
package main

import (
	"fmt"
	"os"

	"github.com/treykane/remotec/internal/cli"
)

func main() {
	// Errors already carry their wrapped context; print the chain and exit 1.
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
