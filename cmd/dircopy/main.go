// Command dircopy copies directory trees with rsync: an exact image of one
// or more sources, or a two-way timestamp sync between two directories. Each
// run keeps a transfer log documenting what rsync did.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dirtools/dircopy/pkg/buildinfo"
	"github.com/dirtools/dircopy/pkg/execute"
	"github.com/dirtools/dircopy/pkg/flagparse"
	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/rsync"
	"github.com/dirtools/dircopy/pkg/translog"
	"github.com/dirtools/dircopy/pkg/util"
)

// run encapsulates the application logic and returns an error if something
// goes wrong, allowing main to handle exit codes.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := flagparse.ParseDircopy(args)
	if errors.Is(err, flagparse.ErrHelp) {
		flagparse.DircopyUsage(stdout)
		return nil
	}
	if err != nil {
		flagparse.DircopyUsage(stderr)
		return err
	}

	plog.SetQuiet(opts.Quiet)
	plog.SetVerbose(opts.Verbose || opts.Debug)
	plog.Debug("Starting dircopy", "version", buildinfo.Version, "pid", os.Getpid())

	plan, err := rsync.Compose(opts)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get working directory: %w", err)
	}

	logger := translog.New(plan.LogPath, translog.Header{
		Start:        time.Now(),
		Dir:          cwd,
		Source:       plan.SourceExpr,
		Dest:         plan.Dest,
		Mode:         plan.Mode,
		RsyncOptions: strings.Join(plan.BaseArgs(), " "),
	}, translog.Options{NoLog: opts.NoLog, Compress: opts.CompressLog})

	runner := execute.NewRunner(opts.Verbose, opts.Debug)
	for _, t := range plan.Transfers {
		inv := plan.Invocation(t)
		logger.BeginTransfer(t.Label, inv.String())
		err := runner.Run(ctx, inv,
			io.MultiWriter(stdout, logger.Writer()),
			io.MultiWriter(stderr, logger.Writer()))
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			// A failed pass neither aborts the run nor changes the exit
			// status; rsync already reported the details on stderr and the
			// log records them.
			plog.Warn("Transfer finished with errors", "pass", t.Label, "error", err)
		}
		logger.EndTransfer(t.Label)
	}

	finalPath, err := logger.Finalize()
	if err != nil {
		plog.Warn("Could not place transfer log", "error", err)
		return nil
	}
	if finalPath == "" {
		return nil
	}
	plog.Debug("Transfer log placed", "path", finalPath)

	if plan.Sync {
		mirrorLog(finalPath, plan)
	}
	return nil
}

// mirrorLog copies the finalized log to the other end of a sync so both
// directories document the run. A remote end never receives a copy.
func mirrorLog(finalPath string, plan *rsync.Plan) {
	other := plan.Dest
	if strings.HasPrefix(finalPath, plan.Dest) {
		other = plan.SourceExpr
	}
	if util.IsRemotePath(other) {
		return
	}
	if err := translog.Mirror(finalPath, other); err != nil {
		plog.Warn("Could not mirror transfer log", "dir", other, "error", err)
	}
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
		plog.Error("dircopy exited with error", "error", err)
		os.Exit(1)
	}
}
