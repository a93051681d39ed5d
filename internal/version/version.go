package version

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/mintforgehq/mintforge/internal/version.Version=...".
var Version = "0.3.0"
