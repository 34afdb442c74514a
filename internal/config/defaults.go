package config

// ConfigName is the config file base name (gflow.yaml).
const ConfigName = "gflow"

// ConfigFileName is the config file name written by gflow init.
const ConfigFileName = "gflow.yaml"

// Integration branch defaults
const (
	DefaultStableBranch  = "master"
	DefaultDevelopBranch = "develop"
)

// Remote defaults
const (
	DefaultRemote = "origin"
)

// Prefix defaults
const (
	DefaultFeaturePrefix    = "feature/"
	DefaultReleasePrefix    = "release/"
	DefaultHotfixPrefix     = "hotfix/"
	DefaultSupportPrefix    = "support/"
	DefaultVersionTagPrefix = ""
)
