package version

// Set at build time, e.g.
// go build -ldflags "-X github.com/pysugar/push-to-notion/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
