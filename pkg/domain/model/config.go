package model

import "github.com/m-mizutani/releasor/pkg/domain/types"

const (
	DefaultMessageTemplate = "Release {{ version }}"
	DefaultTagTemplate     = "{{ version }}"
	DefaultBranch          = "master"
	DefaultRemote          = "origin"
	DefaultManifestFile    = "package.json"
)

// Config is the resolved set of options governing one release run. It is
// built once at startup and must not be modified afterwards.
type Config struct {
	Bump         types.BumpKind
	DryRun       bool
	Release      bool // false keeps the run local: no push, no publish, no notification
	VerifyBranch bool
	Changelog    bool

	MessageTemplate string
	TagTemplate     string

	Directory    string
	ManifestFile string
	Branch       string
	Remote       string

	NpmUserConfig string
	NpmToken      string `masq:"secret"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Bump:            types.BumpPatch,
		Release:         true,
		VerifyBranch:    true,
		Changelog:       true,
		MessageTemplate: DefaultMessageTemplate,
		TagTemplate:     DefaultTagTemplate,
		Directory:       ".",
		ManifestFile:    DefaultManifestFile,
		Branch:          DefaultBranch,
		Remote:          DefaultRemote,
	}
}
