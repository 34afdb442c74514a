// Package flow implements the gflow branching workflows: starting,
// publishing, tracking, and finishing feature, release, hotfix, and support
// branches. All repository state lives in git; this package only sequences
// Manager calls behind precondition guards.
package flow

import (
	"io"

	"github.com/yarlson/gflow/internal/config"
	"github.com/yarlson/gflow/internal/git"
)

// Kind identifies a branching workflow.
type Kind string

// The supported workflows.
const (
	KindFeature Kind = "feature"
	KindRelease Kind = "release"
	KindHotfix  Kind = "hotfix"
	KindSupport Kind = "support"
)

// Prefix returns the configured branch-name prefix for the workflow.
func (k Kind) Prefix(cfg *config.Config) string {
	switch k {
	case KindFeature:
		return cfg.Prefix.Feature
	case KindRelease:
		return cfg.Prefix.Release
	case KindHotfix:
		return cfg.Prefix.Hotfix
	case KindSupport:
		return cfg.Prefix.Support
	default:
		return ""
	}
}

// Base returns the integration branch the workflow branches from. Features
// and releases come off develop; hotfixes and support branches come off the
// stable branch.
func (k Kind) Base(cfg *config.Config) string {
	switch k {
	case KindHotfix, KindSupport:
		return cfg.Branch.Stable
	default:
		return cfg.Branch.Develop
	}
}

// Flow sequences git operations into branching workflows. Out receives
// human-readable progress and summaries; Err receives warnings.
type Flow struct {
	Git git.Manager
	Cfg *config.Config
	Out io.Writer
	Err io.Writer
}

// New creates a Flow over the given manager and configuration.
func New(g git.Manager, cfg *config.Config, out, errW io.Writer) *Flow {
	return &Flow{Git: g, Cfg: cfg, Out: out, Err: errW}
}

// remote returns the configured remote name.
func (f *Flow) remote() string {
	return f.Cfg.Remote.Name
}

// remoteRef returns the remote-tracking name for a branch ("origin/x").
func (f *Flow) remoteRef(branch string) string {
	return f.remote() + "/" + branch
}
