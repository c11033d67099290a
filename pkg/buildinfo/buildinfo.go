package buildinfo

// Version holds the version string shared by the dircopy and syncme binaries.
// It's a `var` so it can be set at compile time using ldflags.
// Example: go build -ldflags="-X github.com/dirtools/dircopy/pkg/buildinfo.Version=1.0.0"
var Version = "dev"

// Name is the canonical name of the project used for logging.
var Name = "dircopy"
