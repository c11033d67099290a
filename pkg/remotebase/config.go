package remotebase

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/sasbury/mini"

	"github.com/dirtools/dircopy/pkg/util"
)

// ConfigFileName is the per-user syncme configuration file, looked up in the
// home directory.
const ConfigFileName = ".syncme.conf"

// Config holds the remote base settings for syncme.
type Config struct {
	// Base overrides the resolved base entirely (the -server-base flag).
	Base string
	// MountBase is the locally mounted network base.
	MountBase string
	// SSHBase is the host:path fallback used when the mount is absent.
	SSHBase string
	// Sentinel is the file probed inside MountBase to detect a live mount.
	Sentinel string
}

// NewDefault returns the built-in base configuration.
func NewDefault() Config {
	return Config{
		MountBase: "/net/server/home",
		SSHBase:   "server:/home",
		Sentinel:  ".syncme-server",
	}
}

// Load reads the user's syncme config file and overlays it on the defaults.
// A missing file is a normal case. An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := NewDefault()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, ConfigFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := mini.LoadConfiguration(path)
	if err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	// The config file contains a section like:
	//
	// [remote]
	//     mountbase = /net/server/home
	//     sshbase = server:/home
	//     sentinel = .syncme-server
	fileCfg := Config{
		Base:      file.StringFromSection("remote", "base", ""),
		MountBase: file.StringFromSection("remote", "mountbase", ""),
		SSHBase:   file.StringFromSection("remote", "sshbase", ""),
		Sentinel:  file.StringFromSection("remote", "sentinel", ""),
	}
	if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("merging config file %s: %w", path, err)
	}

	// Local bases may be written with a tilde in the config file.
	for _, p := range []*string{&cfg.Base, &cfg.MountBase} {
		expanded, err := util.ExpandPath(*p)
		if err != nil {
			return cfg, err
		}
		*p = expanded
	}
	return cfg, nil
}
