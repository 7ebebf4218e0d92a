package interfaces

import (
	"context"

	"github.com/m-mizutani/releasor/pkg/domain/model"
)

// CommandRunner executes external commands in the project directory
type CommandRunner interface {
	// Run executes command and returns its combined output. A non-zero exit
	// status is returned as an error wrapping *types.CommandError.
	Run(ctx context.Context, command string, opts model.RunOptions) (string, error)
}
