//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package main

import (
	"os"
	"path"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/common/cmdutil"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest/suites"
	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/harness"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

const defaultConfigFile = "udisks_test_runner.yml"

type cliOptions struct {
	AllowProxy bool           `long:"allow-proxy" description:"Allow proxy configuration via environment"`
	Debug      bool           `short:"d" long:"debug" description:"Enable debug output"`
	JSONLogs   bool           `short:"J" long:"json-logging" description:"Enable JSON-formatted log output"`
	LogFile    string         `short:"l" long:"log-file" description:"Write the daemon debug log to a file"`
	System     bool           `short:"s" long:"system" description:"Test the system installed daemon instead of a development tree build"`
	ProjectDir string         `short:"p" long:"project-dir" description:"Path to the project source checkout under test"`
	ConfigPath string         `short:"o" long:"config-path" description:"Path to harness configuration file"`
	Run        runCmd         `command:"run" description:"Provision the host and run test suites (default behavior)"`
	ListTests  listTestsCmd   `command:"list-tests" description:"List the available test suites and cases"`
	Version    versionCmd     `command:"version" description:"Print udisks-test-runner version"`
	ManPage    cmdutil.ManCmd `command:"manpage" hidden:"true"`
}

type (
	configSetter interface {
		setConfig(*harness.Config)
	}

	configCmd struct {
		cfg *harness.Config
	}
)

func (cmd *configCmd) setConfig(cfg *harness.Config) {
	cmd.cfg = cfg
}

// buildRegistry assembles the registry of shipped test suites.
func buildRegistry() (*dbustest.Registry, error) {
	reg := dbustest.NewRegistry()
	if err := suites.RegisterAll(reg); err != nil {
		return nil, err
	}

	return reg, nil
}

func exitWithError(log logging.Logger, err error) {
	cmdName := path.Base(os.Args[0])
	log.Errorf("%s: %v", cmdName, err)
	if fault.HasResolution(err) {
		log.Errorf("%s: %s", cmdName, fault.ShowResolutionFor(err))
	}
	os.Exit(1)
}

// resolveConfig locates and loads the harness configuration, then
// layers command line overrides on top of it.
func resolveConfig(log logging.Logger, opts *cliOptions) (*harness.Config, error) {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		defaultConfigPath := path.Join(build.ConfigDir, defaultConfigFile)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		}
	}

	cfg := harness.DefaultConfig()
	if cfgPath != "" {
		if err := cfg.SetPath(cfgPath); err != nil {
			return nil, errors.WithMessage(err, "failed to load harness configuration")
		}
		if err := cfg.Load(); err != nil {
			return nil, errors.WithMessage(err, "failed to load harness configuration")
		}
		log.Debugf("harness config loaded from %s", cfg.Path)
	}

	// Command line options override the config file.
	if opts.ProjectDir != "" {
		cfg.WithProjectDir(opts.ProjectDir)
	}
	if opts.System {
		cfg.WithSystemDaemon(true)
	}
	if opts.LogFile != "" {
		cfg.WithDaemonLogFile(opts.LogFile)
	}

	return cfg, nil
}

func parseOpts(args []string, opts *cliOptions, log *logging.LeveledLogger) error {
	p := flags.NewParser(opts, flags.Default)
	p.Name = build.ToolName
	p.ShortDescription = "Integration test harness for the UDisks daemon"
	p.Usage = "[OPTIONS] [COMMAND] [suite[.case] ...]"
	p.Options ^= flags.PrintErrors // Don't allow the library to print errors
	p.SubcommandsOptional = true
	p.CommandHandler = func(cmd flags.Commander, cmdArgs []string) error {
		if cmd == nil {
			// Bare positional arguments select tests for a default run.
			cmd = &runCmd{}
		}

		if manCmd, ok := cmd.(cmdutil.ManPageWriter); ok {
			manCmd.SetWriteFunc(p.WriteManPage)
			return cmd.Execute(cmdArgs)
		}

		if logCmd, ok := cmd.(cmdutil.LogSetter); ok {
			logCmd.SetLog(log)
		}

		if opts.Debug {
			log.SetLevel(logging.LogLevelDebug)
			log.Debug("debug output enabled")
		}

		if opts.JSONLogs {
			log.WithJSONOutput()
		}

		if argsCmd, ok := cmd.(cmdutil.ArgsHandler); ok {
			if err := argsCmd.CheckArgs(cmdArgs); err != nil {
				return err
			}
		}

		switch cmd.(type) {
		case *versionCmd, *listTestsCmd:
			// these commands don't need the rest of the setup
			return cmd.Execute(cmdArgs)
		}

		if !opts.AllowProxy {
			common.ScrubProxyVariables()
		}

		cfg, err := resolveConfig(log, opts)
		if err != nil {
			return err
		}

		if cfgCmd, ok := cmd.(configSetter); ok {
			cfgCmd.setConfig(cfg)
		}

		return cmd.Execute(cmdArgs)
	}

	_, err := p.ParseArgs(args)
	return err
}

func main() {
	var opts cliOptions
	log := logging.NewCommandLineLogger()

	if err := parseOpts(os.Args[1:], &opts, log); err != nil {
		if fe, ok := errors.Cause(err).(*flags.Error); ok && fe.Type == flags.ErrHelp {
			log.Info(fe.Error())
			os.Exit(0)
		}
		exitWithError(log, err)
	}
}
