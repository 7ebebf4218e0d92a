package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasor/pkg/cli/config"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
)

func resolve(t *testing.T, args ...string) (model.Config, error) {
	t.Helper()

	var rc config.Release
	var got model.Config
	var resolveErr error

	cmd := &cli.Command{
		Name:  "releasor",
		Flags: rc.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			got, resolveErr = rc.Resolve(c)
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"releasor"}, args...)))
	return got, resolveErr
}

func TestRelease_Resolve_Defaults(t *testing.T) {
	cfg, err := resolve(t)
	gt.NoError(t, err)
	gt.Value(t, cfg).Equal(model.DefaultConfig())
}

func TestRelease_Resolve_Flags(t *testing.T) {
	cfg, err := resolve(t,
		"--bump", "major",
		"--dry-run",
		"--release=false",
		"--verify-branch=false",
		"-m", "Bump to {{ version }}",
		"-t", "v{{ version }}",
		"--directory", "/tmp/pkg",
		"--npm-user-config", "/tmp/.npmrc",
		"--branch", "main",
	)
	gt.NoError(t, err)
	gt.Value(t, cfg.Bump).Equal(types.BumpMajor)
	gt.Value(t, cfg.DryRun).Equal(true)
	gt.Value(t, cfg.Release).Equal(false)
	gt.Value(t, cfg.VerifyBranch).Equal(false)
	gt.String(t, cfg.MessageTemplate).Equal("Bump to {{ version }}")
	gt.String(t, cfg.TagTemplate).Equal("v{{ version }}")
	gt.String(t, cfg.Directory).Equal("/tmp/pkg")
	gt.String(t, cfg.NpmUserConfig).Equal("/tmp/.npmrc")
	gt.String(t, cfg.Branch).Equal("main")
	gt.String(t, cfg.Remote).Equal(model.DefaultRemote)
}

func TestRelease_Resolve_InvalidBump(t *testing.T) {
	_, err := resolve(t, "--bump", "huge")
	gt.Error(t, err)
	gt.Number(t, types.ExitCode(err)).Equal(1)
}

func TestRelease_Resolve_ConfigFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "releasor.toml")
	gt.NoError(t, os.WriteFile(tomlPath, []byte(`
bump = "minor"
tag = "v{{ version }}"
release = false
branch = "main"
`), 0600))

	yamlPath := filepath.Join(dir, "releasor.yaml")
	gt.NoError(t, os.WriteFile(yamlPath, []byte(`
bump: major
message: "chore: release {{ version }}"
verify_branch: false
`), 0600))

	t.Run("toml", func(t *testing.T) {
		cfg, err := resolve(t, "--config", tomlPath)
		gt.NoError(t, err)
		gt.Value(t, cfg.Bump).Equal(types.BumpMinor)
		gt.String(t, cfg.TagTemplate).Equal("v{{ version }}")
		gt.Value(t, cfg.Release).Equal(false)
		gt.String(t, cfg.Branch).Equal("main")
		gt.String(t, cfg.MessageTemplate).Equal(model.DefaultMessageTemplate)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := resolve(t, "--config", yamlPath)
		gt.NoError(t, err)
		gt.Value(t, cfg.Bump).Equal(types.BumpMajor)
		gt.String(t, cfg.MessageTemplate).Equal("chore: release {{ version }}")
		gt.Value(t, cfg.VerifyBranch).Equal(false)
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := resolve(t, "--config", tomlPath, "--bump", "patch", "--release")
		gt.NoError(t, err)
		gt.Value(t, cfg.Bump).Equal(types.BumpPatch)
		gt.Value(t, cfg.Release).Equal(true)
		gt.String(t, cfg.TagTemplate).Equal("v{{ version }}")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := resolve(t, "--config", filepath.Join(dir, "nope.toml"))
		gt.Error(t, err)
		gt.Value(t, types.KindOf(err)).Equal(types.KindValidationFailed)
	})
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "releasor.json")
	gt.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0600))
	_, err := config.LoadFile(jsonPath)
	gt.Error(t, err)
	gt.Value(t, types.KindOf(err)).Equal(types.KindValidationFailed)

	brokenPath := filepath.Join(dir, "broken.toml")
	gt.NoError(t, os.WriteFile(brokenPath, []byte(`bump = `), 0600))
	_, err = config.LoadFile(brokenPath)
	gt.Error(t, err)
	gt.Value(t, types.KindOf(err)).Equal(types.KindValidationFailed)
}
