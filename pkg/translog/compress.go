package translog

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/dirtools/dircopy/pkg/plog"
	"github.com/dirtools/dircopy/pkg/util"
)

// compressFile compresses path into path.<format> and removes the original.
// It returns the path of the compressed file.
func compressFile(path, format string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening log for compression: %w", err)
	}

	outPath := path + "." + format
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, util.UserWritableFilePerms)
	if err != nil {
		in.Close()
		return "", fmt.Errorf("creating compressed log: %w", err)
	}

	var w io.WriteCloser
	switch format {
	case "gz":
		w = pgzip.NewWriter(out)
	case "zst":
		zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			in.Close()
			out.Close()
			return "", fmt.Errorf("creating zstd writer: %w", err)
		}
		w = zw
	default:
		in.Close()
		out.Close()
		return "", fmt.Errorf("unsupported log compression format: %q", format)
	}

	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		out.Close()
		in.Close()
		return "", fmt.Errorf("compressing log: %w", err)
	}
	if err := w.Close(); err != nil {
		out.Close()
		in.Close()
		return "", fmt.Errorf("flushing compressed log: %w", err)
	}
	if err := out.Close(); err != nil {
		in.Close()
		return "", fmt.Errorf("closing compressed log: %w", err)
	}
	in.Close()

	if err := os.Remove(path); err != nil {
		plog.Warn("Could not remove uncompressed log", "path", path, "error", err)
	}
	return outPath, nil
}
