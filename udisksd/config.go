//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udisksd

import (
	"io"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
)

// Config describes how the daemon under test is launched.
type Config struct {
	BinPath     string   `yaml:"bin_path,omitempty"`
	Replace     bool     `yaml:"replace,omitempty" cmdLongFlag:"--replace"`
	Uninstalled bool     `yaml:"uninstalled,omitempty" cmdLongFlag:"--uninstalled"`
	Debug       bool     `yaml:"debug,omitempty" cmdLongFlag:"--debug"`
	EnvVars     []string `yaml:"env_vars,omitempty"`

	// LogWriter receives the daemon's stdout and stderr when set;
	// otherwise both are forwarded to the harness logger.
	LogWriter io.Writer `yaml:"-"`
}

// NewConfig returns a daemon config with the flags used for test runs:
// take over the well-known bus name, load modules from the build tree
// and log verbosely.
func NewConfig() *Config {
	return &Config{
		Replace:     true,
		Uninstalled: true,
		Debug:       true,
	}
}

func (c *Config) Validate() error {
	if c.BinPath == "" {
		return errors.New("no daemon binary path set")
	}
	return nil
}

// CmdLineArgs returns the daemon command line args built from the
// config.
func (c *Config) CmdLineArgs() ([]string, error) {
	return parseCmdTags(c, longFlagTag, joinLongArgs)
}

// CmdLineEnv returns the daemon environment additions built from the
// config. These are applied on top of the harness environment.
func (c *Config) CmdLineEnv() ([]string, error) {
	tagEnv, err := parseCmdTags(c, envTag, joinEnvVars)
	if err != nil {
		return nil, err
	}
	return common.MergeKeyValues(c.EnvVars, tagEnv), nil
}

func (c *Config) WithBinPath(binPath string) *Config {
	c.BinPath = binPath
	return c
}

func (c *Config) WithLogWriter(w io.Writer) *Config {
	c.LogWriter = w
	return c
}

// WithEnvVars applies the supplied variables on top of any existing
// ones, with new values overwriting existing values.
func (c *Config) WithEnvVars(newVars ...string) *Config {
	c.EnvVars = common.MergeKeyValues(c.EnvVars, newVars)
	return c
}
