// Command wastegrid manages the facility registry and routing graph of a
// municipal waste network and answers route, reachability and emission
// queries over it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/katalvlaran/wastegrid/network"
	"github.com/katalvlaran/wastegrid/session"
)

// Exit codes.
const (
	exitOK              = 0
	exitError           = 1
	exitInvalidArgument = 2
	exitNotFound        = 3
	exitIOFailure       = 4
	exitUnauthorized    = 5
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}

	return exitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrUnauthorized):
		return exitUnauthorized
	}
	switch network.Kind(err) {
	case network.ErrNotFound:
		return exitNotFound
	case network.ErrInvalidArgument:
		return exitInvalidArgument
	case network.ErrIOFailure:
		return exitIOFailure
	}

	return exitError
}
