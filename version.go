package weave

// Release is the semantic version of this build. It is overwritten at link
// time for tagged releases.
var Release = "v0.1.0-dev"

// GitCommit is set at link time to the commit the binary was built from.
var GitCommit = ""

// Version returns the release string, followed by the commit if known.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
