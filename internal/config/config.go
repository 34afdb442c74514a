// Package config loads gflow configuration from gflow.yaml.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all gflow configuration.
type Config struct {
	Branch BranchConfig `mapstructure:"branch" yaml:"branch"`
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Prefix PrefixConfig `mapstructure:"prefix" yaml:"prefix"`
}

// BranchConfig names the long-lived integration branches.
type BranchConfig struct {
	Stable  string `mapstructure:"stable" yaml:"stable"`
	Develop string `mapstructure:"develop" yaml:"develop"`
}

// RemoteConfig holds remote settings.
type RemoteConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// PrefixConfig holds the per-workflow branch-name prefixes and the version
// tag prefix.
type PrefixConfig struct {
	Feature    string `mapstructure:"feature" yaml:"feature"`
	Release    string `mapstructure:"release" yaml:"release"`
	Hotfix     string `mapstructure:"hotfix" yaml:"hotfix"`
	Support    string `mapstructure:"support" yaml:"support"`
	VersionTag string `mapstructure:"version_tag" yaml:"version_tag"`
}

// LoadConfigWithFile loads configuration from a specific file if provided,
// otherwise falls back to LoadConfig with the working directory.
func LoadConfigWithFile(workDir, configFile string) (*Config, error) {
	if configFile != "" {
		return LoadConfigFromPath(configFile)
	}
	return LoadConfig(workDir)
}

// LoadConfig loads configuration from gflow.yaml in the given directory.
// If no config file exists, the defaults are returned.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific file path.
func LoadConfigFromPath(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			if err := v.Unmarshal(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Branch: BranchConfig{
			Stable:  DefaultStableBranch,
			Develop: DefaultDevelopBranch,
		},
		Remote: RemoteConfig{
			Name: DefaultRemote,
		},
		Prefix: PrefixConfig{
			Feature:    DefaultFeaturePrefix,
			Release:    DefaultReleasePrefix,
			Hotfix:     DefaultHotfixPrefix,
			Support:    DefaultSupportPrefix,
			VersionTag: DefaultVersionTagPrefix,
		},
	}
}

// Write marshals the configuration to path as YAML. With force an existing
// file is overwritten; otherwise it is an error.
func (c *Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// setDefaults sets all default values for configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("branch.stable", DefaultStableBranch)
	v.SetDefault("branch.develop", DefaultDevelopBranch)

	v.SetDefault("remote.name", DefaultRemote)

	v.SetDefault("prefix.feature", DefaultFeaturePrefix)
	v.SetDefault("prefix.release", DefaultReleasePrefix)
	v.SetDefault("prefix.hotfix", DefaultHotfixPrefix)
	v.SetDefault("prefix.support", DefaultSupportPrefix)
	v.SetDefault("prefix.version_tag", DefaultVersionTagPrefix)
}
