// Command vaultengine is a thin entrypoint over the vault engine's
// session, vault, batch, and wire packages: a "serve" subcommand that
// speaks the §6 wire surface over stdio, and a "scan" subcommand that
// prints a one-shot health report. It intentionally does not reimplement
// the teacher's full read/write/search/tasks/templates CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/arkan-labs/vaultengine/cmd/vaultengine/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
