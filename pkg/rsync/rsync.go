// Package rsync composes rsync invocations for directory image copies and
// two-way timestamp syncs. It never talks to rsync itself; it only builds
// the plan of passes that the executor runs.
package rsync

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dirtools/dircopy/pkg/execute"
	"github.com/dirtools/dircopy/pkg/flagparse"
	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/util"
)

// LogFileName is the default transfer log name, placed inside the first source.
const LogFileName = ".dircopy.log"

// Transfer is one rsync pass. In sync mode two transfers are produced with
// mirrored endpoints; they share every option except the delete flag.
type Transfer struct {
	Srcs   []string
	Dst    string
	Delete bool
	Update bool
	Label  string
}

// Plan is the ordered set of rsync passes for one dircopy run, plus the
// metadata the transfer log header needs.
type Plan struct {
	Transfers []Transfer
	LogPath   string
	Sync      bool
	Mode      string // "image", "sync" or "Dsync"

	SourceExpr string
	Dest       string

	baseArgs []string
}

// BaseArgs returns the option tokens shared by every pass.
func (p *Plan) BaseArgs() []string {
	return slices.Clone(p.baseArgs)
}

// Invocation renders one pass into an executable rsync command.
func (p *Plan) Invocation(t Transfer) execute.Invocation {
	args := slices.Clone(p.baseArgs)
	if t.Update {
		args = append(args, "--update")
	}
	if t.Delete {
		args = append(args, "--delete")
	}
	args = append(args, t.Srcs...)
	args = append(args, t.Dst)
	return execute.Invocation{Prog: "rsync", Args: args}
}

// Compose validates the endpoints and builds the rsync passes for opts.
//
// A local destination is created (with a warning) when missing and rejected
// when it exists as something other than a directory. Destinations carrying
// a remote marker are left entirely to rsync.
func Compose(opts flagparse.DircopyOptions) (*Plan, error) {
	p := &Plan{
		SourceExpr: strings.Join(opts.Sources, " "),
		Dest:       opts.Dest,
		Sync:       opts.Sync,
	}
	switch {
	case opts.DSync:
		p.Mode = "Dsync"
	case opts.Sync:
		p.Mode = "sync"
	default:
		p.Mode = "image"
	}

	if !util.IsRemotePath(opts.Dest) {
		info, err := os.Stat(opts.Dest)
		switch {
		case os.IsNotExist(err):
			if opts.DryRun {
				plog.Info("[DRY RUN] Would create destination directory", "path", opts.Dest)
			} else {
				plog.Warn("Destination directory does not exist, creating it", "path", opts.Dest)
				if err := os.MkdirAll(opts.Dest, util.UserWritableDirPerms); err != nil {
					return nil, fmt.Errorf("creating destination directory %s: %w", opts.Dest, err)
				}
			}
		case err != nil:
			return nil, fmt.Errorf("checking destination %s: %w", opts.Dest, err)
		case !info.IsDir():
			return nil, fmt.Errorf("destination %s exists but is not a directory", opts.Dest)
		}
	}

	p.LogPath = opts.LogName
	if p.LogPath == "" {
		p.LogPath = filepath.Join(opts.Sources[0], LogFileName)
	}

	passthrough, err := execute.SplitTokens(opts.RsOptions)
	if err != nil {
		return nil, err
	}
	args := []string{"-avH"}
	args = append(args, passthrough...)
	if opts.DryRun {
		args = append(args, "--dry-run")
	}

	remote := util.IsRemotePath(opts.Dest)
	for _, s := range opts.Sources {
		remote = remote || util.IsRemotePath(s)
	}
	if remote {
		args = append(args, "-e", "ssh")
	}
	p.baseArgs = args

	if opts.Sync {
		src := opts.Sources[0]
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("sync mode needs an existing source directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("sync mode source %s is not a directory", src)
		}

		// rsync trailing-slash semantics: reconcile the directory contents,
		// not the directory itself.
		srcSlash := ensureTrailingSlash(src)
		dstSlash := ensureTrailingSlash(opts.Dest)
		p.Transfers = []Transfer{
			{Srcs: []string{srcSlash}, Dst: dstSlash, Update: true, Delete: opts.DSync, Label: "sync out"},
			{Srcs: []string{dstSlash}, Dst: srcSlash, Update: true, Label: "sync back"},
		}
	} else {
		p.Transfers = []Transfer{
			{Srcs: slices.Clone(opts.Sources), Dst: opts.Dest, Delete: !opts.NoDelete, Label: "image"},
		}
	}

	return p, nil
}

func ensureTrailingSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
