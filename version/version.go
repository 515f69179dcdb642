package version //nolint:revive // package name intentionally matches build-info convention

// Build information, set with -ldflags "-X github.com/pitabwire/addins/version.Version=..." at build time.
//
//nolint:gochecknoglobals //version information is set at build time
var (
	Repository = "github.com/pitabwire/addins"
	Version    = "dev"
	Commit     = "unknown"
	Date       = "unknown"
)
