package version

// Version is the release of the signals binary.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-signals/internal/version.Version=0.2.0"
// The value "main" marks a development build.
var Version = "v0.1.0"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
