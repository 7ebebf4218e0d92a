package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/interfaces"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/m-mizutani/releasor/pkg/infra/shell"
	"github.com/m-mizutani/releasor/pkg/utils/logging"
	"golang.org/x/mod/semver"
)

// TaskID names a release step
type TaskID string

const (
	TaskBumpVersion       TaskID = "bump-version"
	TaskStageFiles        TaskID = "stage-files"
	TaskCommit            TaskID = "commit"
	TaskCreateTag         TaskID = "create-tag"
	TaskPushTag           TaskID = "push-tag"
	TaskPublishPackage    TaskID = "publish-package"
	TaskPush              TaskID = "push"
	TaskNotifyRelease     TaskID = "notify-release"
	TaskCurrentBranchName TaskID = "current-branch-name"
	TaskLatestTag         TaskID = "latest-tag"
	TaskCommitsSinceTag   TaskID = "commits-since-tag"
)

// Capability tells whether a task can change state outside the local machine
type Capability int

const (
	LocalOnly Capability = iota
	RemoteAffecting
)

func (c Capability) String() string {
	if c == RemoteAffecting {
		return "remote-affecting"
	}
	return "local-only"
}

// TaskSpec is an entry of the task catalog
type TaskSpec struct {
	ID         TaskID
	Capability Capability
	// AlwaysExecute tasks are read-only and run for real even in dry-run mode.
	AlwaysExecute bool
}

// Remote-affecting tasks are listed explicitly; anything not marked
// RemoteAffecting is assumed local and keeps running with --release=false.
var taskCatalog = []TaskSpec{
	{ID: TaskBumpVersion, Capability: LocalOnly},
	{ID: TaskStageFiles, Capability: LocalOnly},
	{ID: TaskCommit, Capability: LocalOnly},
	{ID: TaskCreateTag, Capability: LocalOnly},
	{ID: TaskPushTag, Capability: RemoteAffecting},
	{ID: TaskPublishPackage, Capability: RemoteAffecting},
	{ID: TaskPush, Capability: RemoteAffecting},
	{ID: TaskNotifyRelease, Capability: RemoteAffecting},
	{ID: TaskCurrentBranchName, Capability: LocalOnly, AlwaysExecute: true},
	{ID: TaskLatestTag, Capability: LocalOnly, AlwaysExecute: true},
	{ID: TaskCommitsSinceTag, Capability: LocalOnly, AlwaysExecute: true},
}

// TaskCatalog returns a copy of the static task catalog
func TaskCatalog() []TaskSpec {
	return slices.Clone(taskCatalog)
}

// gatedTask is a catalog entry bound to the command strategy chosen for this run
type gatedTask struct {
	spec    TaskSpec
	enabled bool
	runner  interfaces.CommandRunner
}

// Tasks is the set of release steps gated by one Config
type Tasks struct {
	cfg      model.Config
	gated    map[TaskID]gatedTask
	notifier interfaces.Notifier
}

// TasksOption is a functional option for Tasks
type TasksOption func(*Tasks)

// WithNotifier sets the notifier used by the notify-release task
func WithNotifier(n interfaces.Notifier) TasksOption {
	return func(t *Tasks) {
		t.notifier = n
	}
}

// NewTasks binds every catalog entry to cfg. Remote-affecting tasks are
// disabled unless release mode is on, and in dry-run mode only the
// AlwaysExecute tasks reach runner.
func NewTasks(cfg model.Config, runner interfaces.CommandRunner, opts ...TasksOption) *Tasks {
	t := &Tasks{
		cfg:   cfg,
		gated: make(map[TaskID]gatedTask, len(taskCatalog)),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, spec := range taskCatalog {
		g := gatedTask{
			spec:    spec,
			enabled: cfg.Release || spec.Capability == LocalOnly,
			runner:  runner,
		}
		if cfg.DryRun && !spec.AlwaysExecute {
			g.runner = &dryRunner{}
		}
		t.gated[spec.ID] = g
	}

	return t
}

// HasNotifier reports whether a release notification target is configured
func (t *Tasks) HasNotifier() bool {
	return t.notifier != nil
}

// skip reports whether id is disabled for this run, logging the skip
func (t *Tasks) skip(ctx context.Context, id TaskID) bool {
	g := t.gated[id]
	if g.enabled {
		return false
	}
	logging.From(ctx).Info("Skip task", "task", id, "capability", g.spec.Capability, "reason", "release disabled")
	return true
}

func (t *Tasks) run(ctx context.Context, id TaskID, command string, opts model.RunOptions) (string, error) {
	return t.gated[id].runner.Run(ctx, command, opts)
}

func (t *Tasks) manifestPath() string {
	return filepath.Join(t.cfg.Directory, t.cfg.ManifestFile)
}

// BumpVersion increments the manifest version and returns the new one
func (t *Tasks) BumpVersion(ctx context.Context, bump types.BumpKind) (string, error) {
	if t.skip(ctx, TaskBumpVersion) {
		return "", nil
	}
	logging.From(ctx).Info("Bump version number", "bump", bump)

	if _, err := t.run(ctx, TaskBumpVersion, "npm --no-git-tag-version version "+shell.Quote(string(bump)), model.RunOptions{}); err != nil {
		return "", err
	}

	manifest, err := ReadManifest(t.manifestPath())
	if err != nil {
		return "", goerr.Wrap(err, "error when detecting new version")
	}
	if manifest.Version == "" {
		return "", goerr.New("manifest has no version after bump", goerr.V("path", t.manifestPath()))
	}
	if !semver.IsValid("v" + strings.TrimPrefix(manifest.Version, "v")) {
		return "", goerr.New("manifest version is not a semantic version",
			goerr.V("version", manifest.Version),
			goerr.V("path", t.manifestPath()),
		)
	}

	return manifest.Version, nil
}

// StageFiles adds files to the git index
func (t *Tasks) StageFiles(ctx context.Context, files []string) error {
	if t.skip(ctx, TaskStageFiles) {
		return nil
	}
	logging.From(ctx).Info(fmt.Sprintf("Staged %d files", len(files)), "files", files)

	_, err := t.run(ctx, TaskStageFiles, "git add "+shell.Join(files...), model.RunOptions{})
	return err
}

// Commit records the staged changes with message
func (t *Tasks) Commit(ctx context.Context, message string) error {
	if t.skip(ctx, TaskCommit) {
		return nil
	}
	logging.From(ctx).Info("Commit files", "message", message)

	_, err := t.run(ctx, TaskCommit, "git commit -m "+shell.Quote(message), model.RunOptions{})
	return err
}

// CreateTag creates a lightweight tag and passes its name through
func (t *Tasks) CreateTag(ctx context.Context, name string) (string, error) {
	if t.skip(ctx, TaskCreateTag) {
		return name, nil
	}
	logging.From(ctx).Info("Created a new git tag", "tag", name)

	if _, err := t.run(ctx, TaskCreateTag, "git tag "+shell.Quote(name), model.RunOptions{}); err != nil {
		return "", err
	}
	return name, nil
}

// PushTag pushes tag to the configured remote
func (t *Tasks) PushTag(ctx context.Context, tag string) error {
	if t.skip(ctx, TaskPushTag) {
		return nil
	}
	logging.From(ctx).Info("Push created git tag to remote", "remote", t.cfg.Remote, "tag", tag)

	_, err := t.run(ctx, TaskPushTag, "git push "+shell.Join(t.cfg.Remote, tag), model.RunOptions{})
	return err
}

// PublishPackage publishes the package to the npm registry. userConfig
// optionally points npm at a custom .npmrc.
func (t *Tasks) PublishPackage(ctx context.Context, userConfig string) error {
	if t.skip(ctx, TaskPublishPackage) {
		return nil
	}
	logging.From(ctx).Info("Publish to npm", "userconfig", userConfig)

	command := "npm"
	if userConfig != "" {
		command += " --userconfig=" + shell.Quote(userConfig)
	}
	command += " publish"

	var opts model.RunOptions
	if t.cfg.NpmToken != "" {
		opts.Env = []string{"NODE_AUTH_TOKEN=" + t.cfg.NpmToken}
	}

	_, err := t.run(ctx, TaskPublishPackage, command, opts)
	return err
}

// Push pushes the current branch
func (t *Tasks) Push(ctx context.Context) error {
	if t.skip(ctx, TaskPush) {
		return nil
	}
	logging.From(ctx).Info("Push to remote")

	_, err := t.run(ctx, TaskPush, "git push", model.RunOptions{})
	return err
}

// NotifyRelease posts the release summary through the configured notifier
func (t *Tasks) NotifyRelease(ctx context.Context, n *model.ReleaseNotification) error {
	if t.notifier == nil || t.skip(ctx, TaskNotifyRelease) {
		return nil
	}
	logger := logging.From(ctx)

	if t.cfg.DryRun {
		logger.Info("Dry run: skip release notification", "tag", n.TagName)
		return nil
	}

	logger.Info("Notify release", "tag", n.TagName)
	return t.notifier.Notify(ctx, n)
}

// CurrentBranchName returns the checked out branch. It runs even in dry-run mode.
func (t *Tasks) CurrentBranchName(ctx context.Context) (string, error) {
	out, err := t.run(ctx, TaskCurrentBranchName, "git rev-parse --abbrev-ref HEAD", model.RunOptions{Silent: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LatestTag returns the most recent reachable tag. When the repository has
// no tag yet it falls back to the root commit. Other failures are returned
// unchanged. It runs even in dry-run mode.
func (t *Tasks) LatestTag(ctx context.Context) (string, error) {
	out, err := t.run(ctx, TaskLatestTag, "git describe --tags --abbrev=0", model.RunOptions{Silent: true})
	if err != nil {
		err = classifyDescribeError(err)
		if types.KindOf(err) != types.KindNoTagFound {
			return "", err
		}

		logging.From(ctx).Info("No tags found, trying to get one of root commits")
		return t.rootCommit(ctx)
	}

	tag := strings.TrimSpace(out)
	if tag == "" {
		return "", goerr.New("unexpected empty tag returned by git describe")
	}
	return tag, nil
}

// noTagMessages are what git describe prints when no tag can be used
var noTagMessages = []string{
	"No names found",
	"No tags can describe",
}

func classifyDescribeError(err error) error {
	cmdErr, ok := types.AsCommandError(err)
	if !ok {
		return err
	}
	for _, msg := range noTagMessages {
		if strings.Contains(cmdErr.Output, msg) {
			return goerr.Wrap(err, "no tag found", goerr.T(types.TagNoTagFound))
		}
	}
	return err
}

func (t *Tasks) rootCommit(ctx context.Context) (string, error) {
	out, err := t.run(ctx, TaskLatestTag, "git rev-list HEAD", model.RunOptions{Silent: true})
	if err != nil {
		return "", goerr.Wrap(err, "no commit history found", goerr.T(types.TagNoTagFound))
	}

	lines := splitLines(out)
	if len(lines) == 0 {
		return "", goerr.New("no commit history found", goerr.T(types.TagNoTagFound))
	}
	return lines[len(lines)-1], nil
}

// CommitsSinceTag lists "<shorthash> <subject>" for every commit after tag,
// oldest first. It runs even in dry-run mode.
func (t *Tasks) CommitsSinceTag(ctx context.Context, tag string) ([]string, error) {
	command := "git log --reverse --pretty=" + shell.Quote("format:%h %s") + " " + shell.Quote(tag+"..HEAD")
	out, err := t.run(ctx, TaskCommitsSinceTag, command, model.RunOptions{Silent: true})
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func splitLines(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}
	}

	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// dryRunner replaces the real runner for mutating tasks in dry-run mode
type dryRunner struct{}

func (r *dryRunner) Run(ctx context.Context, command string, _ model.RunOptions) (string, error) {
	logging.From(ctx).Info("Dry run: skip command", "command", command)
	return "", nil
}
