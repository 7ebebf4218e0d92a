package config

import (
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Release holds the release pipeline options given on the command line
type Release struct {
	ConfigFile    string
	Bump          string
	DryRun        bool
	Release       bool
	VerifyBranch  bool
	Changelog     bool
	Message       string
	Tag           string
	Directory     string
	Branch        string
	Remote        string
	NpmUserConfig string
	NpmToken      string `masq:"secret"`
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	def := model.DefaultConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Config file (.toml, .yaml or .yml); flags override its values",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("RELEASOR_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "bump",
			Usage:       "Bump type. Valid values patch, minor, major",
			Value:       string(def.Bump),
			Destination: &c.Bump,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "No state changing commands are executed. Read-only commands such as git log still run",
			Value:       def.DryRun,
			Destination: &c.DryRun,
		},
		&cli.BoolFlag{
			Name:        "release",
			Usage:       "When false (--release=false), only commands modifying the local environment run. Nothing is sent to git remotes or npm",
			Value:       def.Release,
			Destination: &c.Release,
		},
		&cli.BoolFlag{
			Name:        "verify-branch",
			Usage:       "When false (--verify-branch=false), the current branch is not verified",
			Value:       def.VerifyBranch,
			Destination: &c.VerifyBranch,
		},
		&cli.BoolFlag{
			Name:        "changelog",
			Usage:       "Print commits since the previous release before bumping",
			Value:       def.Changelog,
			Destination: &c.Changelog,
		},
		&cli.StringFlag{
			Name:        "message",
			Aliases:     []string{"m"},
			Usage:       "Commit message for the release. {{ version }}, {{ directory }} and {{ name }} are replaced",
			Value:       def.MessageTemplate,
			Destination: &c.Message,
		},
		&cli.StringFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Tag name format. {{ version }}, {{ directory }} and {{ name }} are replaced",
			Value:       def.TagTemplate,
			Destination: &c.Tag,
		},
		&cli.StringFlag{
			Name:        "directory",
			Usage:       "Directory of the package to release",
			Value:       def.Directory,
			Destination: &c.Directory,
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch releases must be made from",
			Value:       def.Branch,
			Destination: &c.Branch,
			Sources:     cli.EnvVars("RELEASOR_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Git remote the tag is pushed to",
			Value:       def.Remote,
			Destination: &c.Remote,
			Sources:     cli.EnvVars("RELEASOR_REMOTE"),
		},
		&cli.StringFlag{
			Name:        "npm-user-config",
			Usage:       "Custom .npmrc used by npm publish (optional)",
			Destination: &c.NpmUserConfig,
			Sources:     cli.EnvVars("RELEASOR_NPM_USER_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "npm-token",
			Usage:       "Registry token exposed to npm publish as NODE_AUTH_TOKEN (optional)",
			Destination: &c.NpmToken,
			Sources:     cli.EnvVars("RELEASOR_NPM_TOKEN"),
		},
	}
}

// Resolve merges defaults, the config file and the flags explicitly set on
// cmd into the run configuration.
func (c *Release) Resolve(cmd *cli.Command) (model.Config, error) {
	cfg := model.DefaultConfig()

	if c.ConfigFile != "" {
		file, err := LoadFile(c.ConfigFile)
		if err != nil {
			return model.Config{}, err
		}
		file.apply(&cfg)
	}

	set := func(name string) bool { return cmd.IsSet(name) }

	if set("bump") {
		cfg.Bump = types.BumpKind(c.Bump)
	}
	if set("dry-run") {
		cfg.DryRun = c.DryRun
	}
	if set("release") {
		cfg.Release = c.Release
	}
	if set("verify-branch") {
		cfg.VerifyBranch = c.VerifyBranch
	}
	if set("changelog") {
		cfg.Changelog = c.Changelog
	}
	if set("message") {
		cfg.MessageTemplate = c.Message
	}
	if set("tag") {
		cfg.TagTemplate = c.Tag
	}
	if set("directory") {
		cfg.Directory = c.Directory
	}
	if set("branch") {
		cfg.Branch = c.Branch
	}
	if set("remote") {
		cfg.Remote = c.Remote
	}
	if set("npm-user-config") {
		cfg.NpmUserConfig = c.NpmUserConfig
	}
	if set("npm-token") {
		cfg.NpmToken = c.NpmToken
	}

	bump, err := types.ParseBumpKind(string(cfg.Bump))
	if err != nil {
		return model.Config{}, err
	}
	cfg.Bump = bump

	return cfg, nil
}
