package model

// ReleaseNotification is the message posted to chat after a release
type ReleaseNotification struct {
	Package string
	Version string
	TagName string
	Commits []string
}
