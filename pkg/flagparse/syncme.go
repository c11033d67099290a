package flagparse

import (
	"fmt"
	"io"

	"github.com/dirtools/dircopy/pkg/buildinfo"
	"github.com/dirtools/dircopy/pkg/util"
)

// Mode selects the direction of a syncme run.
type Mode int

const (
	ModeNone Mode = iota
	ModeUp
	ModeDown
	ModeSync
)

var modeToString = map[Mode]string{
	ModeNone: "none",
	ModeUp:   "up",
	ModeDown: "down",
	ModeSync: "sync",
}

var stringToMode map[string]Mode

func init() {
	stringToMode = util.InvertMap(modeToString)
}

func (m Mode) String() string {
	if str, ok := modeToString[m]; ok {
		return str
	}
	return fmt.Sprintf("unknown_mode(%d)", m)
}

// ParseMode maps a mode argument to its Mode value.
func ParseMode(s string) (Mode, error) {
	if mode, ok := stringToMode[s]; ok && mode != ModeNone {
		return mode, nil
	}
	return ModeNone, fmt.Errorf("invalid mode: %q. Must be 'up', 'down', or 'sync'", s)
}

// SyncmeOptions is the validated, immutable option record for a syncme run.
type SyncmeOptions struct {
	Mode       Mode
	DryRun     bool
	Debug      bool
	Verbose    bool
	SSH        bool
	ServerBase string
}

var syncmeVocabulary = []flagSpec{
	{"dry-run", boolFlag, "Pass -dry-run through to dircopy."},
	{"debug", boolFlag, "Print the composed dircopy command without executing it."},
	{"verbose", boolFlag, "Print each command before executing it."},
	{"ssh", boolFlag, "Skip the mount probe and always use the SSH-addressed base."},
	{"server-base", stringFlag, "Override the resolved remote base entirely."},
}

// ParseSyncme parses and validates the syncme command line.
func ParseSyncme(args []string) (SyncmeOptions, error) {
	p, err := parseArgs(args, syncmeVocabulary)
	if err != nil {
		return SyncmeOptions{}, err
	}

	if len(p.positionals) != 1 {
		return SyncmeOptions{}, fmt.Errorf("exactly one mode argument is required: 'up', 'down', or 'sync'")
	}
	mode, err := ParseMode(p.positionals[0])
	if err != nil {
		return SyncmeOptions{}, err
	}

	return SyncmeOptions{
		Mode:       mode,
		DryRun:     p.bools["dry-run"],
		Debug:      p.bools["debug"],
		Verbose:    p.bools["verbose"],
		SSH:        p.bools["ssh"],
		ServerBase: p.strs["server-base"],
	}, nil
}

// SyncmeUsage prints the syncme help text.
func SyncmeUsage(w io.Writer) {
	fmt.Fprintf(w, "syncme(%s) ", buildinfo.Version)
	fmt.Fprintf(w, "Mirror the current directory against its remote counterpart.\n\n")
	fmt.Fprintf(w, "Usage: syncme [flags] up|down|sync\n\n")
	fmt.Fprintf(w, "Flags:\n")
	printVocabulary(w, syncmeVocabulary)
	fmt.Fprintf(w, "\nFlags accept any unambiguous prefix of their name.\n")
}
