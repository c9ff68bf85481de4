// Package misc provides build time program identification.
package misc

// Set at build time via -ldflags "-X cascade/misc.appVersion=... -X cascade/misc.gitHash=...".
var (
	appName    = "cascade"
	appVersion = "development"
	gitHash    = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return appVersion
}

func GetGitHash() string {
	return gitHash
}
