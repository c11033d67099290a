// Package translog maintains the transfer log of a dircopy run: a header,
// per-pass markers and the teed rsync output, accumulated in a temporary
// file and relocated once the run completes.
package translog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/util"
)

const timeLayout = "2006-01-02 15:04:05"

// Header describes the run a transfer log documents.
type Header struct {
	Start        time.Time
	Dir          string
	Source       string
	Dest         string
	Mode         string
	RsyncOptions string
}

// Options control how the log is finalized.
type Options struct {
	NoLog    bool
	Compress string // "", "gz" or "zst"
}

// Logger accumulates a transfer log in a temporary file and relocates it
// when the run completes.
//
// The temp file is created in the system temp directory, never inside the
// source or destination trees: the transfer being logged must not be able
// to delete or overwrite its own log.
type Logger struct {
	file      *os.File // nil when logging is disabled
	tempPath  string
	finalPath string
	opts      Options
	start     time.Time
}

// New creates the temporary log file and writes the run header. Logging
// failures are soft: on error a disabled logger is returned and the
// transfer proceeds without a log.
func New(finalPath string, h Header, opts Options) *Logger {
	l := &Logger{finalPath: finalPath, opts: opts, start: h.Start}

	f, err := os.CreateTemp("", "dircopy-*.log")
	if err != nil {
		plog.Warn("Cannot create transfer log, continuing without one", "error", err)
		return l
	}
	l.file = f
	l.tempPath = f.Name()

	fmt.Fprintf(f, "==== dircopy transfer log ====\n")
	fmt.Fprintf(f, "started:       %s\n", h.Start.Format(timeLayout))
	fmt.Fprintf(f, "invoked in:    %s\n", h.Dir)
	fmt.Fprintf(f, "source:        %s\n", h.Source)
	fmt.Fprintf(f, "destination:   %s\n", h.Dest)
	fmt.Fprintf(f, "mode:          %s\n", h.Mode)
	fmt.Fprintf(f, "rsync options: %s\n", h.RsyncOptions)
	return l
}

// Writer returns the sink transfer output is teed into.
func (l *Logger) Writer() io.Writer {
	if l.file == nil {
		return io.Discard
	}
	return l.file
}

// TempPath returns the temp file backing the log ("" when disabled).
func (l *Logger) TempPath() string {
	return l.tempPath
}

// BeginTransfer marks the start of one pass in the log.
func (l *Logger) BeginTransfer(label, command string) {
	if l.file == nil {
		return
	}
	fmt.Fprintf(l.file, "\n---- begin %s: %s ----\n", label, command)
}

// EndTransfer marks the end of one pass in the log.
func (l *Logger) EndTransfer(label string) {
	if l.file == nil {
		return
	}
	fmt.Fprintf(l.file, "---- end %s ----\n", label)
}

// Finalize closes the log and moves it to its final location. It returns
// the path the log was placed at, or "" when no log was placed.
//
// With NoLog the temp file is deliberately left at its temporary location;
// that matches the tool's historical behavior. A final path carrying a
// remote marker is never written to: logs stay on the local machine and
// the temp file is removed instead.
func (l *Logger) Finalize() (string, error) {
	if l.file == nil {
		return "", nil
	}

	fmt.Fprintf(l.file, "\nstarted:  %s\nfinished: %s\n",
		l.start.Format(timeLayout), time.Now().Format(timeLayout))
	if err := l.file.Close(); err != nil {
		plog.Warn("Closing transfer log failed", "error", err)
	}
	l.file = nil

	if l.opts.NoLog {
		return "", nil
	}

	if util.IsRemotePath(l.finalPath) {
		plog.Debug("Log path is remote, skipping log placement", "path", l.finalPath)
		if err := os.Remove(l.tempPath); err != nil {
			plog.Warn("Could not remove temporary log", "path", l.tempPath, "error", err)
		}
		return "", nil
	}

	placed := l.tempPath
	if l.opts.Compress != "" {
		compressed, err := compressFile(l.tempPath, l.opts.Compress)
		if err != nil {
			plog.Warn("Compressing transfer log failed, placing it uncompressed", "error", err)
		} else {
			placed = compressed
			l.finalPath += "." + l.opts.Compress
		}
	}

	if err := os.Rename(placed, l.finalPath); err != nil {
		// Rename fails across filesystems; fall back to a plain copy.
		if copyErr := util.CopyFile(placed, l.finalPath); copyErr != nil {
			return "", fmt.Errorf("placing transfer log at %s: %w", l.finalPath, copyErr)
		}
		if err := os.Remove(placed); err != nil {
			plog.Warn("Could not remove temporary log", "path", placed, "error", err)
		}
	}
	return l.finalPath, nil
}

// Mirror copies a finalized log into dir so both ends of a sync keep a copy.
func Mirror(finalPath, dir string) error {
	return util.CopyFile(finalPath, filepath.Join(dir, filepath.Base(finalPath)))
}
