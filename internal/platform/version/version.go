// Package version reports which kiosk build is running, so a technician at
// the exhibit can read it from /version without a shell.
package version

import (
	"fmt"
	"runtime"
)

// Name identifies the exhibit build.
const Name = "memorytrail"

// Set through -ldflags "-X .../version.Version=..." by the release build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the one-line form logged at startup, e.g. "memorytrail dev (unknown)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, i.Commit)
}
