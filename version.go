package polyglot

// Version information for polyglot.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/polyglot.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "polyglot"

	// Description is a short description of the application.
	Description = "Structure-preserving document translation for text, Markdown, HTML and JSON"

	// Version is the semantic version of the application.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/polyglot"
)

// Build information, set via ldflags during release builds.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when it is known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
