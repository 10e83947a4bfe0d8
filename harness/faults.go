//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package harness

import (
	"fmt"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

var (
	// FaultPrivilegesRequired represents an attempt to run the harness
	// without root privileges.
	FaultPrivilegesRequired = harnessFault(
		code.PrivilegesRequired,
		"this command must be run with root privileges",
		"provisioning scratch devices and installing system configuration require root; re-run via sudo",
	)
)

// FaultDaemonAlreadyRunning indicates that a daemon instance outside
// the harness' control is already on the system.
func FaultDaemonAlreadyRunning(pid int) *fault.Fault {
	return harnessFault(
		code.DuplicateDaemonProcess,
		fmt.Sprintf("a %s process is already running (pid: %d)", build.DaemonName, pid),
		fmt.Sprintf("stop the running %s (e.g. systemctl stop udisks2.service) before testing a development build", build.DaemonName),
	)
}

func harnessFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "harness",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
