//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udisksd

import (
	"fmt"
	"time"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

var (
	FaultUnknown = daemonFault(
		code.DaemonUnknown, "unknown daemon error", "",
	)
)

// FaultNotFound creates a Fault for the case where the daemon binary to
// test does not exist.
func FaultNotFound(binPath string) *fault.Fault {
	return daemonFault(
		code.DaemonNotFound,
		fmt.Sprintf("daemon binary %s does not exist", binPath),
		"build the source tree, or install the udisks2 package and rerun in system mode",
	)
}

// FaultStartFailed creates a Fault for the case where the daemon could
// not be launched at all.
func FaultStartFailed(err error) *fault.Fault {
	return daemonFault(
		code.DaemonStartFailed,
		fmt.Sprintf("unable to start %s: %s", build.DaemonName, err),
		"",
	)
}

// FaultExited creates a Fault for the case where the daemon process
// exited before claiming its bus name.
func FaultExited(err error) *fault.Fault {
	return daemonFault(
		code.DaemonExited,
		fmt.Sprintf("daemon process exited during startup: %s", err),
		"check the daemon log and the journal dump for the failure reason",
	)
}

// FaultReadyTimeout creates a Fault for the case where the daemon kept
// running but never showed up on the bus.
func FaultReadyTimeout(timeout time.Duration) *fault.Fault {
	return daemonFault(
		code.DaemonReadyTimeout,
		fmt.Sprintf("daemon did not claim %s on the system bus within %s", build.BusName, timeout),
		"the daemon may be stuck initializing; check its log output",
	)
}

func daemonFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "udisksd",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
