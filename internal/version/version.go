package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/dottor/dottor/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/dottor/dottor/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/dottor/dottor/internal/version.Date={{.Date}}
)
