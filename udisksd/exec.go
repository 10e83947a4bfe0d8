//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package udisksd launches and monitors the storage daemon under test.
package udisksd

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

// systemBinDir is where distribution packages install the daemon,
// relative to the filesystem root so that tests can redirect it.
const systemBinDir = "usr/libexec/udisks2"

// FindDaemon resolves the path of the daemon binary under test. In
// system mode the packaged daemon is expected; otherwise the binary
// must have been built in the project source tree.
func FindDaemon(projDir string, system bool) (string, error) {
	return findDaemon(projDir, system, "/")
}

func findDaemon(projDir string, system bool, root string) (string, error) {
	binPath := filepath.Join(root, systemBinDir, build.DaemonName)
	if !system {
		binPath = filepath.Join(projDir, "src", build.DaemonName)
	}

	if _, err := os.Stat(binPath); err != nil {
		if os.IsNotExist(err) {
			return "", FaultNotFound(binPath)
		}
		return "", errors.Wrapf(err, "unable to stat %s", binPath)
	}

	return binPath, nil
}

// Runner starts and manages an instance of the daemon under test.
type Runner struct {
	Config  *Config
	log     logging.Logger
	running atomic.Bool
	sigChan chan os.Signal
}

// NewRunner returns a configured daemon Runner.
func NewRunner(log logging.Logger, config *Config) *Runner {
	return &Runner{
		Config:  config,
		log:     log,
		sigChan: make(chan os.Signal),
	}
}

func (r *Runner) run(ctx context.Context, args, env []string) error {
	binPath := r.Config.BinPath

	cmd := exec.CommandContext(ctx, binPath, args...)
	if r.Config.LogWriter != nil {
		cmd.Stdout = r.Config.LogWriter
		cmd.Stderr = r.Config.LogWriter
	} else {
		cmd.Stdout = &cmdLogger{
			logFn:  r.log.Info,
			prefix: build.DaemonName,
		}
		cmd.Stderr = &cmdLogger{
			logFn:  r.log.Error,
			prefix: build.DaemonName,
		}
	}
	cmd.Env = append(os.Environ(), env...)

	// The daemon should get a SIGKILL if this process dies.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGKILL,
	}

	r.log.Debugf("%s args: %s", build.DaemonName, args)
	r.log.Debugf("%s env: %s", build.DaemonName, env)
	r.log.Infof("Starting %s: %s", build.DaemonName, binPath)

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "%s failed to start", binPath)
	}
	r.running.Store(true)
	defer r.running.Store(false)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-r.sigChan:
				r.log.Debugf("signalling %s with %s", build.DaemonName, sig)
				if err := cmd.Process.Signal(sig); err != nil {
					r.log.Errorf("unable to signal %s: %s", build.DaemonName, err)
				}
			}
		}
	}()

	return errors.Wrapf(common.GetExitStatus(cmd.Wait()), "%s exited", binPath)
}

// Start asynchronously starts the daemon instance and reports its exit
// on the output channel. The returned error covers launch preparation
// failures only.
func (r *Runner) Start(ctx context.Context, errOut chan<- error) error {
	if err := r.Config.Validate(); err != nil {
		return FaultStartFailed(err)
	}
	args, err := r.Config.CmdLineArgs()
	if err != nil {
		return FaultStartFailed(err)
	}
	env, err := r.Config.CmdLineEnv()
	if err != nil {
		return FaultStartFailed(err)
	}

	go func() {
		errOut <- r.run(ctx, args, env)
	}()

	return nil
}

// IsRunning indicates whether the Runner process is running.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// Signal delivers the given signal to the daemon process. The signal
// is dropped with an error if the process has already exited.
func (r *Runner) Signal(sig os.Signal) error {
	if !r.IsRunning() {
		return errors.Errorf("%s is not running", build.DaemonName)
	}
	r.sigChan <- sig
	return nil
}
