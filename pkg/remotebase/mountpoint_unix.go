//go:build !windows

package remotebase

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// isMountPoint checks if the given path is a mount point on Unix-like
// systems by comparing device IDs with the parent directory.
func isMountPoint(path string) (bool, error) {
	var st, parentSt unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, err
	}
	parent := filepath.Dir(path)
	if err := unix.Stat(parent, &parentSt); err != nil {
		return false, err
	}

	// A device ID differing from the parent marks a mount point. The root
	// path is its own parent and always counts.
	return st.Dev != parentSt.Dev || path == parent, nil
}
