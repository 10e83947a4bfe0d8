//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/test"
	"github.com/storaged-project/udisks/src/tests/harness/harness"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

func testExpectedError(t *testing.T, expected, actual error) {
	t.Helper()

	if actual == nil {
		t.Fatalf("expected error %q, got nil", expected)
	}
	errRe := regexp.MustCompile(expected.Error())
	if !errRe.MatchString(actual.Error()) {
		t.Fatalf("error string %q doesn't match expected error %q", actual, expected)
	}
}

func TestRunner_BadFlag(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var opts cliOptions
	err := parseOpts([]string{"--bogus"}, &opts, log)
	testExpectedError(t, fmt.Errorf("unknown flag"), err)
}

func TestRunner_VersionCommand(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var opts cliOptions
	if err := parseOpts([]string{"version"}, &opts, log); err != nil {
		t.Fatal(err)
	}
}

func TestRunner_CommandRejectsArgs(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var opts cliOptions
	err := parseOpts([]string{"version", "extra"}, &opts, log)
	testExpectedError(t, fmt.Errorf("unexpected arguments: extra"), err)
}

func TestRunner_ListTests(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var opts cliOptions
	if err := parseOpts([]string{"list-tests"}, &opts, log); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Block", "device_path, size",
		"Drive", "model",
		"Manager", "version, objects",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunner_Manpage(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	manPath := filepath.Join(t.TempDir(), "runner.8")

	var opts cliOptions
	if err := parseOpts([]string{"manpage", "--output", manPath}, &opts, log); err != nil {
		t.Fatal(err)
	}

	fi, err := os.Stat(manPath)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertTrue(t, fi.Size() > 0, "empty manpage written")
}

func TestRunner_ResolveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, defaultConfigFile)
	cfgYaml := `
project_dir: /src/udisks
daemon_log_file: /tmp/udisksd.log
ready_timeout: 1m
tests:
  - Manager
`
	if err := os.WriteFile(cfgPath, []byte(cfgYaml), 0644); err != nil {
		t.Fatal(err)
	}

	for name, tc := range map[string]struct {
		opts   *cliOptions
		expCfg *harness.Config
		expErr error
	}{
		"defaults without config file": {
			opts:   &cliOptions{},
			expCfg: harness.DefaultConfig(),
		},
		"missing explicit config path": {
			opts:   &cliOptions{ConfigPath: filepath.Join(tmpDir, "nope.yml")},
			expErr: errors.New("no such file or directory"),
		},
		"config file loaded": {
			opts: &cliOptions{ConfigPath: cfgPath},
			expCfg: harness.DefaultConfig().
				WithProjectDir("/src/udisks").
				WithDaemonLogFile("/tmp/udisksd.log").
				WithReadyTimeout(time.Minute).
				WithTests("Manager"),
		},
		"cli overrides layered on top": {
			opts: &cliOptions{
				ConfigPath: cfgPath,
				ProjectDir: "/elsewhere",
				System:     true,
				LogFile:    "/tmp/other.log",
			},
			expCfg: harness.DefaultConfig().
				WithProjectDir("/elsewhere").
				WithSystemDaemon(true).
				WithDaemonLogFile("/tmp/other.log").
				WithReadyTimeout(time.Minute).
				WithTests("Manager"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(t.Name())
			defer test.ShowBufferOnFailure(t, buf)

			gotCfg, gotErr := resolveConfig(log, tc.opts)
			test.CmpErr(t, tc.expErr, gotErr)
			if tc.expErr != nil {
				return
			}

			cmpOpts := cmpopts.IgnoreFields(harness.Config{}, "Path")
			if diff := cmp.Diff(tc.expCfg, gotCfg, cmpOpts); diff != "" {
				t.Fatalf("unexpected config (-want, +got):\n%s", diff)
			}
		})
	}
}

// A default run with no project directory must fail validation before
// anything on the host is touched.
func TestRunner_DefaultRunFailsWithoutProjectDir(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var opts cliOptions
	err := parseOpts([]string{"Manager.version"}, &opts, log)
	testExpectedError(t, fmt.Errorf("no project directory configured"), err)
}

func TestRunner_RunMergesSelection(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	cfg := harness.DefaultConfig()
	cmd := &runCmd{}
	cmd.SetLog(log)
	cmd.setConfig(cfg)
	cmd.Args.Tests = []string{"Manager"}

	// Validation fails before the host is touched; the selection must
	// already be merged by then.
	err := cmd.Execute([]string{"Block.size"})
	test.CmpErr(t, errors.New("no project directory configured"), err)
	test.AssertEqual(t, []string{"Manager", "Block.size"}, cfg.Tests, "selection not merged")
}
