//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package system

import (
	"fmt"
	"os/exec"
)

type (
	// IsMountedProvider is the interface that wraps the IsMounted method,
	// which can be provided by a system-specific implementation or a mock.
	IsMountedProvider interface {
		IsMounted(target string) (bool, error)
	}
	// UnmountProvider is the interface that wraps the Unmount method, which
	// can be provided by a system-specific implementation or a mock.
	UnmountProvider interface {
		Unmount(target string, flags int) error
	}

	// RunCmdError documents the output of a command that has been run.
	RunCmdError struct {
		Wrapped error  // Error from the command run
		Stdout  string // Standard output from the command
	}
)

func (rce *RunCmdError) Error() string {
	if ee, ok := rce.Wrapped.(*exec.ExitError); ok {
		return fmt.Sprintf("%s: stdout: %s; stderr: %s", ee.ProcessState,
			rce.Stdout, ee.Stderr)
	}

	return fmt.Sprintf("%s: stdout: %s", rce.Wrapped.Error(), rce.Stdout)
}
