package usecase

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
)

// ReadManifest loads the package manifest at path
func ReadManifest(path string) (*model.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read manifest", goerr.V("path", path))
	}

	var manifest model.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, goerr.Wrap(err, "failed to parse manifest", goerr.V("path", path))
	}
	return &manifest, nil
}

// ValidateConfig checks the inputs that must be correct before any command runs
func ValidateConfig(cfg model.Config) error {
	if _, err := types.ParseBumpKind(string(cfg.Bump)); err != nil {
		return err
	}

	stat, err := os.Stat(cfg.Directory)
	if err != nil {
		return goerr.Wrap(err, "unable to access target directory",
			goerr.V("directory", cfg.Directory),
			goerr.T(types.TagValidation),
		)
	}
	if !stat.IsDir() {
		return goerr.New("target is not a directory",
			goerr.V("directory", cfg.Directory),
			goerr.T(types.TagValidation),
		)
	}

	path := filepath.Join(cfg.Directory, cfg.ManifestFile)
	stat, err = os.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return goerr.New("unable to locate manifest",
			goerr.V("path", path),
			goerr.T(types.TagValidation),
		)
	}
	if _, err := ReadManifest(path); err != nil {
		return goerr.Wrap(err, "invalid manifest", goerr.T(types.TagValidation))
	}

	return ValidateTemplates(cfg)
}
