//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package udev nudges the device manager so that virtual device churn
// caused by the harness is fully visible to the daemon under test.
package udev

import (
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
)

const cmdUdevadm = "udevadm"

type runCmdFn func(logging.Logger, []string, string, ...string) (string, error)

func run(log logging.Logger, env []string, cmdStr string, args ...string) (string, error) {
	cmdPath, err := exec.LookPath(cmdStr)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve path to %s", cmdStr)
	}

	log.Debugf("running command: %s %s", cmdPath, strings.Join(args, " "))
	cmd := exec.Command(cmdPath, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &system.RunCmdError{
			Wrapped: err,
			Stdout:  string(out),
		}
	}

	return string(out), nil
}

// Shaker drives udevadm around device and rule changes.
type Shaker struct {
	log    logging.Logger
	runCmd runCmdFn
}

// DefaultShaker returns a Shaker that executes udevadm from PATH.
func DefaultShaker(log logging.Logger) *Shaker {
	return NewShaker(log, run)
}

func NewShaker(log logging.Logger, runCmd runCmdFn) *Shaker {
	return &Shaker{
		log:    log,
		runCmd: runCmd,
	}
}

// Settle waits for the device manager event queue to drain.
func (s *Shaker) Settle() error {
	out, err := s.runCmd(s.log, nil, cmdUdevadm, "settle")
	return errors.Wrapf(err, "udevadm settle failed (%s)", out)
}

// Shake reloads the rules, replays events for all devices and waits for
// the resulting queue to drain. Run it after rule files have been
// installed or removed under the device manager's feet.
func (s *Shaker) Shake() error {
	for _, args := range [][]string{
		{"control", "--reload"},
		{"trigger"},
		{"settle"},
	} {
		out, err := s.runCmd(s.log, nil, cmdUdevadm, args...)
		if err != nil {
			return errors.Wrapf(err, "udevadm %s failed (%s)",
				strings.Join(args, " "), out)
		}
	}

	return nil
}
