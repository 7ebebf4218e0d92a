package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration. Unset keys keep their defaults.
type File struct {
	Bump          *string `toml:"bump" yaml:"bump"`
	DryRun        *bool   `toml:"dry_run" yaml:"dry_run"`
	Release       *bool   `toml:"release" yaml:"release"`
	VerifyBranch  *bool   `toml:"verify_branch" yaml:"verify_branch"`
	Changelog     *bool   `toml:"changelog" yaml:"changelog"`
	Message       *string `toml:"message" yaml:"message"`
	Tag           *string `toml:"tag" yaml:"tag"`
	Directory     *string `toml:"directory" yaml:"directory"`
	Branch        *string `toml:"branch" yaml:"branch"`
	Remote        *string `toml:"remote" yaml:"remote"`
	NpmUserConfig *string `toml:"npm_user_config" yaml:"npm_user_config"`
}

// LoadFile reads a TOML or YAML config file, chosen by extension
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.V("path", path),
			goerr.T(types.TagValidation),
		)
	}

	var file File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(raw, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		return nil, goerr.New("unsupported config file format",
			goerr.V("path", path),
			goerr.V("ext", ext),
			goerr.T(types.TagValidation),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", path),
			goerr.T(types.TagValidation),
		)
	}

	return &file, nil
}

func (f *File) apply(cfg *model.Config) {
	if f.Bump != nil {
		cfg.Bump = types.BumpKind(*f.Bump)
	}
	if f.DryRun != nil {
		cfg.DryRun = *f.DryRun
	}
	if f.Release != nil {
		cfg.Release = *f.Release
	}
	if f.VerifyBranch != nil {
		cfg.VerifyBranch = *f.VerifyBranch
	}
	if f.Changelog != nil {
		cfg.Changelog = *f.Changelog
	}
	if f.Message != nil {
		cfg.MessageTemplate = *f.Message
	}
	if f.Tag != nil {
		cfg.TagTemplate = *f.Tag
	}
	if f.Directory != nil {
		cfg.Directory = *f.Directory
	}
	if f.Branch != nil {
		cfg.Branch = *f.Branch
	}
	if f.Remote != nil {
		cfg.Remote = *f.Remote
	}
	if f.NpmUserConfig != nil {
		cfg.NpmUserConfig = *f.NpmUserConfig
	}
}
