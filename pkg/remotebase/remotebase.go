// Package remotebase resolves the remote counterpart of the current working
// directory for syncme: it picks between a locally mounted network base and
// an SSH-addressed base, mirrors the working directory onto it and builds
// the delegating dircopy command.
package remotebase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dirtools/dircopy/pkg/execute"
	"github.com/dirtools/dircopy/pkg/flagparse"
	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/util"
)

// Base is a resolved remote base for syncme transfers.
type Base interface {
	// Path returns the base in a form rsync accepts.
	Path() string
	// Remote reports whether transfers to the base cross a network boundary.
	Remote() bool
}

// MountedBase is a network filesystem mounted into the local tree.
type MountedBase struct{ Root string }

func (b MountedBase) Path() string { return b.Root }
func (b MountedBase) Remote() bool { return false }

// SSHBase is a host-qualified rsync address reached over SSH.
type SSHBase struct{ Addr string }

func (b SSHBase) Path() string { return b.Addr }
func (b SSHBase) Remote() bool { return true }

// Probe decides whether the mounted base is usable.
type Probe func(cfg Config) bool

// Select resolves the remote base. An explicit override wins; otherwise the
// mounted base is used when the probe accepts it, with the SSH base as the
// fallback. forceSSH skips the probe entirely.
func Select(cfg Config, forceSSH bool, probe Probe) Base {
	if cfg.Base != "" {
		if util.IsRemotePath(cfg.Base) {
			return SSHBase{Addr: cfg.Base}
		}
		return MountedBase{Root: cfg.Base}
	}
	if !forceSSH && probe(cfg) {
		return MountedBase{Root: cfg.MountBase}
	}
	return SSHBase{Addr: cfg.SSHBase}
}

// DefaultProbe reports whether the mounted base is live, which means its
// sentinel file exists. A sentinel sitting on a plain local directory (a
// ghost left behind by a dead automount) is detected by the mount point
// check but only warned about; the sentinel remains the deciding signal.
func DefaultProbe(cfg Config) bool {
	if _, err := os.Stat(filepath.Join(cfg.MountBase, cfg.Sentinel)); err != nil {
		return false
	}
	mounted, err := isMountPoint(cfg.MountBase)
	if err == nil && !mounted {
		plog.Warn("Base contains the sentinel but is not a mount point", "path", cfg.MountBase)
	}
	return true
}

// MirrorPath computes the remote counterpart of dir: the portion of dir
// after the first occurrence of username, appended to the base. The scheme
// assumes the home directory path embeds the username; when it does not,
// the mirrored location cannot be derived.
func MirrorPath(base Base, dir, username string) (string, error) {
	idx := strings.Index(dir, username)
	if idx < 0 {
		return "", fmt.Errorf("working directory %q does not contain the user name %q", dir, username)
	}
	return base.Path() + dir[idx+len(username):], nil
}

// DircopyInvocation builds the dircopy command that performs the actual
// transfer. The wrapper never keeps its own transfer logs.
func DircopyInvocation(opts flagparse.SyncmeOptions, cwd, mirror string) (execute.Invocation, error) {
	args := []string{"--nolog"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}

	switch opts.Mode {
	case flagparse.ModeUp:
		args = append(args, cwd+"/", mirror)
	case flagparse.ModeDown:
		args = append(args, mirror, cwd+"/")
	case flagparse.ModeSync:
		args = append(args, "--sync", cwd, mirror)
	default:
		return execute.Invocation{}, fmt.Errorf("invalid mode: %q", opts.Mode)
	}
	return execute.Invocation{Prog: "dircopy", Args: args}, nil
}
