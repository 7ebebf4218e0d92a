package model

// ReleaseInfo summarises a finished release run
type ReleaseInfo struct {
	Version     string   // Version read back from the manifest after the bump
	TagName     string   // Tag created by this run
	PreviousTag string   // Tag (or root commit) the commit log was measured from
	Commits     []string // "<shorthash> <subject>" entries since PreviousTag, oldest first
	Stages      []Stage  // Stages executed, in order
	DryRun      bool
	Released    bool // true when remote-affecting stages were allowed to run
}

// Stage identifies a pipeline step of a release run
type Stage string

const (
	StageVerify    Stage = "verify"
	StageChangelog Stage = "changelog"
	StageBump      Stage = "bump"
	StageStage     Stage = "stage"
	StageCommit    Stage = "commit"
	StageTag       Stage = "tag"
	StagePushTag   Stage = "push-tag"
	StagePublish   Stage = "publish"
	StagePush      Stage = "push"
	StageNotify    Stage = "notify"
	StageSuccess   Stage = "success"
)
