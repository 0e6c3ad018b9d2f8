package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("sparq %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Semver parses the build version as a semantic version. Untagged "dev"
// builds are not semantic versions and return an error.
func (i Info) Semver() (*semver.Version, error) {
	return semver.NewVersion(i.Version)
}

// Satisfies reports whether the build version meets the given semver
// constraint, e.g. ">= 1.2.0". Untagged builds satisfy nothing.
func (i Info) Satisfies(constraint string) (bool, error) {
	v, err := i.Semver()
	if err != nil {
		return false, err
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}
