// Command journalctl is the operator CLI for the journal content API:
// schema migrations, admin account bootstrap and content helpers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
