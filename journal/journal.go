//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package journal captures a system journal extract covering a test
// run, for post-mortem inspection of daemon and kernel messages.
package journal

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
)

const (
	cmdJournalctl = "journalctl"

	// DefaultDumpFile is where the journal extract ends up, relative
	// to the working directory of the run.
	DefaultDumpFile = "journaldump.log"

	// stampFormat is the timestamp layout understood by journalctl -S.
	stampFormat = "2006-01-02 15:04:05"
)

type runCmdFn func(logging.Logger, []string, string, ...string) (string, error)

func run(log logging.Logger, env []string, cmdStr string, args ...string) (string, error) {
	cmdPath, err := exec.LookPath(cmdStr)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve path to %s", cmdStr)
	}

	log.Debugf("running command: %s %s", cmdPath, strings.Join(args, " "))
	cmd := exec.Command(cmdPath, args...)
	cmd.Env = env
	// keep stderr warnings out of the dump
	out, err := cmd.Output()
	if err != nil {
		return "", &system.RunCmdError{
			Wrapped: err,
			Stdout:  string(out),
		}
	}

	return string(out), nil
}

// Dumper writes journal extracts to files.
type Dumper struct {
	log    logging.Logger
	runCmd runCmdFn
}

// DefaultDumper returns a Dumper that executes journalctl from PATH.
func DefaultDumper(log logging.Logger) *Dumper {
	return NewDumper(log, run)
}

func NewDumper(log logging.Logger, runCmd runCmdFn) *Dumper {
	return &Dumper{
		log:    log,
		runCmd: runCmd,
	}
}

// Dump writes all journal entries logged since the given time to
// outPath. Capture failures are noted in the output file and logged,
// never returned: a missing journal must not change the outcome of a
// run.
func (d *Dumper) Dump(since time.Time, outPath string) {
	out, err := common.TruncFile(outPath)
	if err != nil {
		d.log.Errorf("unable to create journal dump %s: %s", outPath, err)
		return
	}
	defer out.Close()

	stamp := since.Format(stampFormat)
	d.log.Debugf("dumping journal since %s to %s", stamp, outPath)

	dump, err := d.runCmd(d.log, nil, cmdJournalctl, "-S", stamp)
	if err != nil {
		d.log.Errorf("unable to capture journal: %s", err)
		fmt.Fprintf(out, "Failed to save journal: %s\n", err)
		return
	}

	if _, err := io.WriteString(out, dump); err != nil {
		d.log.Errorf("unable to write journal dump %s: %s", outPath, err)
	}
}
