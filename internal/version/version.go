package version

import "github.com/fatih/color"

// Build fingerprint of the stchart binary. Release builds override the
// defaults below through -ldflags; a plain `go build` ships the -dev
// version with the git fields empty.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version, each segment painted separately.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is the hash of the commit the binary was built from.
	GitCommit = ""

	// GitMessage is that commit's subject line.
	GitMessage = ""

	// BuildDate is the ISO-8601 build timestamp.
	BuildDate = ""
)
