//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/cmdutil"
	"github.com/storaged-project/udisks/src/tests/harness/harness"
)

// runCmd provisions the host and executes the selected test suites.
// It is also the default command, so bare positional arguments select
// tests without the run keyword.
type runCmd struct {
	cmdutil.LogCmd
	configCmd

	Args struct {
		Tests []string `positional-arg-name:"suite[.case]"`
	} `positional-args:"yes"`
}

func (cmd *runCmd) Execute(args []string) error {
	// Names given without the run keyword arrive as leftover arguments
	// instead of parsed positionals.
	if tests := append(cmd.Args.Tests, args...); len(tests) > 0 {
		cmd.cfg.WithTests(tests...)
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		cmd.Errorf("caught %s; aborting the run", sig)
		cancel()
	}()

	cmd.Debugf("starting %s (pid %d)", versionString(), os.Getpid())

	res, err := harness.New(cmd.Logger, cmd.cfg, reg).Run(ctx)
	if err != nil {
		return err
	}
	if !res.WasSuccessful() {
		return errors.Errorf("%d of %d tests failed", res.Failed, res.Ran)
	}

	return nil
}
