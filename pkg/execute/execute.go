package execute

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dirtools/dircopy/pkg/plog"
)

// Invocation is a fully assembled command: a program name plus its argument
// list. Commands are always spawned directly, never through a shell, so the
// arguments reach the child process exactly as composed.
type Invocation struct {
	Prog string
	Args []string
}

// String renders the invocation the way a user would type it.
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Prog
	}
	return inv.Prog + " " + strings.Join(inv.Args, " ")
}

// SplitTokens splits a passthrough option string into argv tokens. Shell
// metacharacters are rejected: the tokens are handed to the child verbatim
// and must not smuggle in a second command.
func SplitTokens(s string) ([]string, error) {
	if i := strings.IndexAny(s, "|&;<>()$`\\\"'"); i >= 0 {
		return nil, fmt.Errorf("passthrough options contain forbidden character %q", s[i])
	}
	return strings.Fields(s), nil
}

// Runner executes invocations. Verbose and debug behavior is fixed at
// construction instead of living in process-wide mutable state.
type Runner struct {
	verbose bool
	debug   bool

	// commandContext allows mocking os/exec for testing.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewRunner creates a Runner. In verbose mode each command is printed before
// it runs; in debug mode commands are printed and never spawned.
func NewRunner(verbose, debug bool) *Runner {
	return &Runner{
		verbose:        verbose,
		debug:          debug,
		commandContext: exec.CommandContext,
	}
}

// Run executes inv, streaming the child's stdout and stderr into the given
// writers. The writers usually tee to the console and the transfer log; a
// failure while draining the pipes is reported as a warning, not an error,
// so a broken log never aborts a running transfer.
func (r *Runner) Run(ctx context.Context, inv Invocation, stdout, stderr io.Writer) error {
	if r.debug || r.verbose {
		fmt.Fprintln(stdout, inv.String())
	}
	if r.debug {
		return nil
	}

	cmd := r.commandContext(ctx, inv.Prog, inv.Args...)
	setProcAttr(cmd)

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("connecting stdout of %s: %w", inv.Prog, err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("connecting stderr of %s: %w", inv.Prog, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", inv.Prog, err)
	}

	// Both pipes have to be drained concurrently or the child can stall on
	// a full pipe buffer.
	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(stdout, outPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, errPipe)
		return err
	})
	copyErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		// cmd.Wait can fail because the context was canceled; report that
		// as the more specific condition.
		if ctx.Err() == context.Canceled {
			return context.Canceled
		}
		return fmt.Errorf("command '%s' failed: %w", inv.String(), err)
	}
	if copyErr != nil {
		plog.Warn("Command output capture incomplete", "command", inv.Prog, "error", copyErr)
	}
	return nil
}
