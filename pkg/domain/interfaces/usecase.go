package interfaces

import (
	"context"

	"github.com/m-mizutani/releasor/pkg/domain/model"
)

// ReleaseUseCase runs the release pipeline
type ReleaseUseCase interface {
	// Run bumps, commits, tags, pushes and publishes according to the run configuration
	Run(ctx context.Context) (*model.ReleaseInfo, error)

	// Changelog returns the latest tag and the commits made since it
	Changelog(ctx context.Context) (string, []string, error)
}
