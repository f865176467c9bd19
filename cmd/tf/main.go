package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cli.Options{Verbose: isVerbose()}
	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		cli.PrintError(os.Stderr, err)
		return 1
	}

	err = root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, cli.ErrAborted):
		cli.PrintCancelled(os.Stderr)
		return 1
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if !errors.Is(err, domain.ErrMissingCredential) {
		cli.PrintError(os.Stderr, err)
	}
	return 1
}

func isVerbose() bool {
	value := os.Getenv(domain.EnvDebug)
	return strings.EqualFold(value, "1") || strings.EqualFold(value, "true")
}
