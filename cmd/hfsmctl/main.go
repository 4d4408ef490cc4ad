// Command hfsmctl validates, draws and replays YAML machine definitions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/comalice/hfsm/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// ExitErrors have already been reported on stdout.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
