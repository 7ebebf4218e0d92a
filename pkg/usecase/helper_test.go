package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
)

// spyRunner records every command it receives and answers through handler
type spyRunner struct {
	calls   []string
	handler func(command string) (string, error)
}

func (s *spyRunner) Run(ctx context.Context, command string, opts model.RunOptions) (string, error) {
	s.calls = append(s.calls, command)
	if s.handler != nil {
		return s.handler(command)
	}
	return "", nil
}

func commandFailure(command, output string) error {
	return goerr.Wrap(&types.CommandError{Command: command, Output: output, ExitCode: 128},
		"command failed", goerr.T(types.TagCommand))
}

// fakeRepo simulates git and npm for the pipeline
type fakeRepo struct {
	t       *testing.T
	dir     string
	branch  string
	tags    []string
	commits []string // since the latest tag, oldest first
	failOn  string   // command prefix that fails
}

func newFakeRepo(t *testing.T, version string) *fakeRepo {
	dir := t.TempDir()
	writeManifest(t, dir, fmt.Sprintf(`{"name": "my-lib", "version": %q}`, version))
	return &fakeRepo{t: t, dir: dir, branch: "master"}
}

func (r *fakeRepo) handle(command string) (string, error) {
	if r.failOn != "" && strings.HasPrefix(command, r.failOn) {
		return "", commandFailure(command, "simulated failure")
	}

	switch {
	case command == "git rev-parse --abbrev-ref HEAD":
		return r.branch + "\n", nil
	case command == "git describe --tags --abbrev=0":
		if len(r.tags) == 0 {
			return "", commandFailure(command, "fatal: No names found, cannot describe anything.\n")
		}
		return r.tags[len(r.tags)-1] + "\n", nil
	case command == "git rev-list HEAD":
		return "c3\nc2\nroot000\n", nil
	case strings.HasPrefix(command, "git log"):
		return strings.Join(r.commits, "\n"), nil
	case strings.HasPrefix(command, "npm --no-git-tag-version version "):
		kind := strings.Trim(strings.TrimPrefix(command, "npm --no-git-tag-version version "), "'")
		return r.bump(types.BumpKind(kind)), nil
	}
	return "", nil
}

func (r *fakeRepo) manifestVersion() string {
	raw, err := os.ReadFile(filepath.Join(r.dir, "package.json"))
	gt.NoError(r.t, err)
	var m model.Manifest
	gt.NoError(r.t, json.Unmarshal(raw, &m))
	return m.Version
}

func (r *fakeRepo) bump(kind types.BumpKind) string {
	parts := strings.Split(r.manifestVersion(), ".")
	gt.Number(r.t, len(parts)).Equal(3)

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		gt.NoError(r.t, err)
		nums[i] = n
	}

	switch kind {
	case types.BumpMajor:
		nums = []int{nums[0] + 1, 0, 0}
	case types.BumpMinor:
		nums = []int{nums[0], nums[1] + 1, 0}
	case types.BumpPatch:
		nums[2]++
	}

	next := fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2])
	writeManifest(r.t, r.dir, fmt.Sprintf(`{"name": "my-lib", "version": %q}`, next))
	return "v" + next
}

func (r *fakeRepo) config() model.Config {
	cfg := model.DefaultConfig()
	cfg.Directory = r.dir
	return cfg
}

// spyNotifier records release notifications
type spyNotifier struct {
	notified []*model.ReleaseNotification
	err      error
}

func (n *spyNotifier) Notify(ctx context.Context, rn *model.ReleaseNotification) error {
	n.notified = append(n.notified, rn)
	return n.err
}
