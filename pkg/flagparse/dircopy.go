package flagparse

import (
	"fmt"
	"io"

	"github.com/dirtools/dircopy/pkg/buildinfo"
)

// DircopyOptions is the validated, immutable option record for a dircopy run.
type DircopyOptions struct {
	DryRun   bool
	Debug    bool
	Verbose  bool
	Quiet    bool
	Sync     bool
	DSync    bool
	NoLog    bool
	NoDelete bool

	CompressLog string // "", "gz" or "zst"
	RsOptions   string
	LogName     string

	Sources []string
	Dest    string
}

var dircopyVocabulary = []flagSpec{
	{"dry-run", boolFlag, "Show what rsync would transfer without changing anything."},
	{"n", boolFlag, "Alias for -dry-run."},
	{"debug", boolFlag, "Print the composed commands without executing them."},
	{"verbose", boolFlag, "Print each command before executing it."},
	{"quiet", boolFlag, "Suppress informational output."},
	{"sync", boolFlag, "Two-way timestamp sync between one source and the destination."},
	{"Dsync", boolFlag, "Destructive sync: -sync where the first pass also deletes extraneous destination files."},
	{"nolog", boolFlag, "Do not place a transfer log."},
	{"nodelete", boolFlag, "Image mode: keep destination files absent from the source."},
	{"compress-log", stringFlag, "Compress the finalized transfer log: 'gz' or 'zst'."},
	{"rsoptions", stringFlag, "Extra rsync options, inserted into the composed command."},
	{"logname", stringFlag, "Path of the transfer log (default: <source>/.dircopy.log)."},
}

// ParseDircopy parses and validates the dircopy command line.
func ParseDircopy(args []string) (DircopyOptions, error) {
	p, err := parseArgs(args, dircopyVocabulary)
	if err != nil {
		return DircopyOptions{}, err
	}

	opts := DircopyOptions{
		DryRun:      p.bools["dry-run"] || p.bools["n"],
		Debug:       p.bools["debug"],
		Verbose:     p.bools["verbose"],
		Quiet:       p.bools["quiet"],
		Sync:        p.bools["sync"],
		DSync:       p.bools["Dsync"],
		NoLog:       p.bools["nolog"],
		NoDelete:    p.bools["nodelete"],
		CompressLog: p.strs["compress-log"],
		RsOptions:   p.strs["rsoptions"],
		LogName:     p.strs["logname"],
	}

	// Dsync is not a separate mode: it upgrades sync's destructiveness.
	if opts.DSync {
		opts.Sync = true
	}

	switch opts.CompressLog {
	case "", "gz", "zst":
	default:
		return DircopyOptions{}, fmt.Errorf("invalid -compress-log format: %q. Must be 'gz' or 'zst'", opts.CompressLog)
	}

	if len(p.positionals) < 2 {
		return DircopyOptions{}, fmt.Errorf("need at least one source and exactly one destination")
	}
	opts.Sources = p.positionals[:len(p.positionals)-1]
	opts.Dest = p.positionals[len(p.positionals)-1]

	if opts.Sync && len(opts.Sources) != 1 {
		return DircopyOptions{}, fmt.Errorf("sync mode takes exactly one source and one destination, got %d sources", len(opts.Sources))
	}

	return opts, nil
}

// DircopyUsage prints the dircopy help text.
func DircopyUsage(w io.Writer) {
	fmt.Fprintf(w, "dircopy(%s) ", buildinfo.Version)
	fmt.Fprintf(w, "Directory copy and synchronization via rsync.\n\n")
	fmt.Fprintf(w, "Usage: dircopy [flags] sources... dest\n\n")
	fmt.Fprintf(w, "Flags:\n")
	printVocabulary(w, dircopyVocabulary)
	fmt.Fprintf(w, "\nFlags accept any unambiguous prefix of their name.\n")
}

func printVocabulary(w io.Writer, specs []flagSpec) {
	for _, s := range specs {
		if s.kind == stringFlag {
			fmt.Fprintf(w, "  -%s <value>\n    \t%s\n", s.name, s.help)
		} else {
			fmt.Fprintf(w, "  -%s\n    \t%s\n", s.name, s.help)
		}
	}
}
