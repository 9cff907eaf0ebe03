// Command lifesim runs, stores, replays, and serves simulated lives.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/lifesim/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lifesim:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
