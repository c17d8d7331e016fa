package config

// Build metadata, overridden with -ldflags "-X ...config.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}

// BuildInfo formats the commit and build date, empty for local builds
func BuildInfo() string {
	if Commit == "unknown" {
		return ""
	}
	if Date == "unknown" {
		return "commit " + Commit
	}
	return "commit " + Commit + ", built " + Date
}
