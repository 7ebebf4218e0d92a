package types

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// TagValidation marks bad user input: bump kind, target directory, manifest, flags.
	TagValidation = goerr.NewTag("validation_failed")
	// TagPrecondition marks a repository state that forbids releasing.
	TagPrecondition = goerr.NewTag("precondition_failed")
	// TagCommand marks a failed external command.
	TagCommand = goerr.NewTag("command_failed")
	// TagNoTagFound marks the only recoverable failure: the repository has no reachable tag.
	TagNoTagFound = goerr.NewTag("no_tag_found")
)

// ErrorKind classifies a failure
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNoTagFound
	KindCommandFailed
	KindValidationFailed
	KindPreconditionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoTagFound:
		return "no_tag_found"
	case KindCommandFailed:
		return "command_failed"
	case KindValidationFailed:
		return "validation_failed"
	case KindPreconditionFailed:
		return "precondition_failed"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err. NoTagFound wins over CommandFailed because
// the describe failure carries both.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case goerr.HasTag(err, TagNoTagFound):
		return KindNoTagFound
	case goerr.HasTag(err, TagValidation):
		return KindValidationFailed
	case goerr.HasTag(err, TagPrecondition):
		return KindPreconditionFailed
	case goerr.HasTag(err, TagCommand):
		return KindCommandFailed
	default:
		return KindUnknown
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if KindOf(err) == KindValidationFailed {
		return 1
	}
	return 2
}

// CommandError is the failure of a single external command
type CommandError struct {
	Command  string
	Output   string
	ExitCode int
	Err      error
}

func (e *CommandError) Unwrap() error { return e.Err }

func (e *CommandError) Error() string {
	return fmt.Sprintf("error executing `%s` (exit %d)\nOutput:\n%s", e.Command, e.ExitCode, e.Output)
}

// AsCommandError extracts the CommandError from an error chain
func AsCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}
