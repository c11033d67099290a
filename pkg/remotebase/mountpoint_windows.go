//go:build windows

package remotebase

// Network bases on Windows are UNC paths or mapped drives; the device-ID
// heuristic does not apply there. The sentinel file alone decides.
func isMountPoint(path string) (bool, error) {
	return true, nil
}
