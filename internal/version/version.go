package version

// version is overridden at build time via
// -ldflags "-X sessiondock/internal/version.version=...".
var version = "dev"

// GetVersion returns the agent version string.
func GetVersion() string {
	return version
}
