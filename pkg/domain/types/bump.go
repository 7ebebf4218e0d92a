package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// BumpKind is the semantic version component to increment
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// BumpKinds lists every accepted bump kind
func BumpKinds() []BumpKind {
	return []BumpKind{BumpMajor, BumpMinor, BumpPatch}
}

// ParseBumpKind converts user input into a BumpKind
func ParseBumpKind(s string) (BumpKind, error) {
	kind := BumpKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case BumpMajor, BumpMinor, BumpPatch:
		return kind, nil
	default:
		return "", goerr.New("invalid bump type",
			goerr.V("bump", s),
			goerr.T(TagValidation),
		)
	}
}
