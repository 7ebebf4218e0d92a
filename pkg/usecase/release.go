package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/interfaces"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/m-mizutani/releasor/pkg/utils/logging"
)

type releaseUseCase struct {
	cfg    model.Config
	tasks  *Tasks
	output io.Writer
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseUseCase)

// WithOutput sets where the human readable report is printed
func WithOutput(w io.Writer) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.output = w
	}
}

// NewRelease creates the release pipeline for one run
func NewRelease(cfg model.Config, tasks *Tasks, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		cfg:    cfg,
		tasks:  tasks,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes the release pipeline. It stops at the first failing stage and
// leaves earlier stages in place: a failure after tagging keeps the local
// commit and tag.
func (uc *releaseUseCase) Run(ctx context.Context) (*model.ReleaseInfo, error) {
	logger := logging.From(ctx)
	logger.Debug("Release configuration", "config", uc.cfg)

	info := &model.ReleaseInfo{
		DryRun:   uc.cfg.DryRun,
		Released: uc.cfg.Release && !uc.cfg.DryRun,
	}

	if uc.cfg.DryRun {
		color.New(color.FgYellow, color.Bold).Fprintln(uc.output, "Dry run")
	}

	manifest, err := uc.verify(ctx)
	if err != nil {
		return nil, err
	}
	info.Stages = append(info.Stages, model.StageVerify)

	if uc.cfg.Changelog {
		prev, commits, err := uc.changelog(ctx)
		if err != nil {
			return nil, err
		}
		info.PreviousTag = prev
		info.Commits = commits
		info.Stages = append(info.Stages, model.StageChangelog)
	}

	version, err := uc.tasks.BumpVersion(ctx, uc.cfg.Bump)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to bump version", goerr.V("bump", uc.cfg.Bump))
	}
	info.Version = version
	info.Stages = append(info.Stages, model.StageBump)

	if err := uc.tasks.StageFiles(ctx, []string{uc.cfg.ManifestFile}); err != nil {
		return nil, goerr.Wrap(err, "failed to stage manifest")
	}
	info.Stages = append(info.Stages, model.StageStage)

	vars := TemplateVars{
		"version":   version,
		"directory": filepath.Base(absDir(uc.cfg.Directory)),
		"name":      manifest.Name,
	}

	message, err := RenderTemplate(uc.cfg.MessageTemplate, vars)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.Commit(ctx, message); err != nil {
		return nil, goerr.Wrap(err, "failed to commit release")
	}
	info.Stages = append(info.Stages, model.StageCommit)

	tagName, err := RenderTemplate(uc.cfg.TagTemplate, vars)
	if err != nil {
		return nil, err
	}
	tag, err := uc.tasks.CreateTag(ctx, tagName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create tag")
	}
	info.TagName = tag
	info.Stages = append(info.Stages, model.StageTag)

	if err := uc.tasks.PushTag(ctx, tag); err != nil {
		return nil, goerr.Wrap(err, "failed to push tag", goerr.V("tag", tag))
	}
	info.Stages = append(info.Stages, model.StagePushTag)

	if err := uc.tasks.PublishPackage(ctx, uc.cfg.NpmUserConfig); err != nil {
		return nil, goerr.Wrap(err, "failed to publish package")
	}
	info.Stages = append(info.Stages, model.StagePublish)

	if err := uc.tasks.Push(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to push")
	}
	info.Stages = append(info.Stages, model.StagePush)

	if uc.tasks.HasNotifier() {
		if err := uc.tasks.NotifyRelease(ctx, &model.ReleaseNotification{
			Package: manifest.Name,
			Version: version,
			TagName: tag,
			Commits: info.Commits,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to notify release")
		}
		info.Stages = append(info.Stages, model.StageNotify)
	}

	fmt.Fprintln(uc.output)
	color.New(color.FgGreen, color.Bold).Fprintln(uc.output, "Release successfully done!")
	info.Stages = append(info.Stages, model.StageSuccess)

	logger.Info("Release finished",
		"version", info.Version,
		"tag", info.TagName,
		"released", info.Released,
		"dry_run", info.DryRun,
	)

	return info, nil
}

// verify checks the branch and manifest preconditions and returns the
// manifest as it was before the bump.
func (uc *releaseUseCase) verify(ctx context.Context) (*model.Manifest, error) {
	logger := logging.From(ctx)

	if err := ValidateTemplates(uc.cfg); err != nil {
		return nil, err
	}

	if uc.cfg.VerifyBranch && !uc.cfg.DryRun {
		branch, err := uc.tasks.CurrentBranchName(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get current branch")
		}
		if !strings.EqualFold(branch, uc.cfg.Branch) {
			return nil, goerr.New(fmt.Sprintf("You should be in %s branch before running the script!", uc.cfg.Branch),
				goerr.V("branch", branch),
				goerr.V("expected", uc.cfg.Branch),
				goerr.T(types.TagPrecondition),
			)
		}
	}

	path := filepath.Join(uc.cfg.Directory, uc.cfg.ManifestFile)
	manifest, err := ReadManifest(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load manifest", goerr.T(types.TagValidation))
	}

	if manifest.Private && uc.cfg.Release {
		if uc.cfg.DryRun {
			logger.Warn("Manifest is private, a real release would be refused", "path", path)
		} else {
			return nil, goerr.New("manifest is marked private, refusing to release",
				goerr.V("path", path),
				goerr.T(types.TagPrecondition),
			)
		}
	}

	return manifest, nil
}

// changelog prints the commits since the release tag that existed before this run
func (uc *releaseUseCase) changelog(ctx context.Context) (string, []string, error) {
	prev, err := uc.tasks.LatestTag(ctx)
	if err != nil {
		if types.KindOf(err) == types.KindNoTagFound {
			logging.From(ctx).Info("No release history, skip commit log")
			fmt.Fprintln(uc.output, "No commits since last release")
			return "", []string{}, nil
		}
		return "", nil, goerr.Wrap(err, "failed to get latest tag")
	}

	commits, err := uc.tasks.CommitsSinceTag(ctx, prev)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to list commits since tag", goerr.V("tag", prev))
	}

	printCommits(uc.output, prev, commits)
	return prev, commits, nil
}

// Changelog reports the commits since the latest tag without changing anything
func (uc *releaseUseCase) Changelog(ctx context.Context) (string, []string, error) {
	return uc.changelog(ctx)
}

func printCommits(w io.Writer, tag string, commits []string) {
	if len(commits) == 0 {
		fmt.Fprintf(w, "No commits since %s\n", tag)
		return
	}

	color.New(color.Bold).Fprintf(w, "Commits since %s:\n", tag)
	for _, c := range commits {
		fmt.Fprintln(w, prefixList(c))
	}
	fmt.Fprintln(w)
}

func prefixList(line string) string {
	return "* " + line
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
