// Command syncme keeps the current working directory in step with its
// counterpart on a configured remote base. It resolves the mirrored path
// from the working directory and delegates the transfer to dircopy.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"

	"github.com/dirtools/dircopy/pkg/buildinfo"
	"github.com/dirtools/dircopy/pkg/execute"
	"github.com/dirtools/dircopy/pkg/flagparse"
	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/remotebase"
)

// Seams for testing; run() exercises the real functions in production.
var (
	getwd       = os.Getwd
	currentUser = user.Current
)

// run encapsulates the application logic and returns an error if something
// goes wrong, allowing main to handle exit codes.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := flagparse.ParseSyncme(args)
	if errors.Is(err, flagparse.ErrHelp) {
		flagparse.SyncmeUsage(stdout)
		return nil
	}
	if err != nil {
		flagparse.SyncmeUsage(stderr)
		return err
	}

	plog.SetVerbose(opts.Verbose || opts.Debug)
	plog.Debug("Starting syncme", "version", buildinfo.Version, "pid", os.Getpid())

	cfg, err := remotebase.Load("")
	if err != nil {
		plog.Warn("Could not load configuration, using defaults", "error", err)
	}
	if opts.ServerBase != "" {
		cfg.Base = opts.ServerBase
	}
	base := remotebase.Select(cfg, opts.SSH, remotebase.DefaultProbe)

	cwd, err := getwd()
	if err != nil {
		return fmt.Errorf("could not get working directory: %w", err)
	}
	usr, err := currentUser()
	if err != nil {
		return fmt.Errorf("could not determine current user: %w", err)
	}
	mirror, err := remotebase.MirrorPath(base, cwd, usr.Username)
	if err != nil {
		return err
	}
	plog.Debug("Resolved mirror location", "base", base.Path(), "mirror", mirror)

	inv, err := remotebase.DircopyInvocation(opts, cwd, mirror)
	if err != nil {
		return err
	}
	return execute.NewRunner(opts.Verbose, opts.Debug).Run(ctx, inv, stdout, stderr)
}

func main() {
	// Set up a context that is canceled when an interrupt signal is received.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		plog.Error("syncme exited with error", "error", err)
		os.Exit(1)
	}
}
