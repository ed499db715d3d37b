// Command cryptopals runs the cryptopals crypto challenges.
//
// Usage:
//
//	# Run every challenge
//	cryptopals run
//
//	# Run set 3 and print a summary
//	cryptopals run --stats -s 3
//
//	# Run challenges 1, 2 and 10 through 12 with reduced search parameters
//	cryptopals run --quick 1 2 10-12
//
//	# List the challenges of set 8
//	cryptopals list -s 8
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/cryptopals/internal/commands"
)

// version indicates the build version, set during compilation.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := commands.Execute(ctx, version)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())

		os.Exit(1)
	}
}
