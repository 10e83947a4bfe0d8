//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package sysconf

import (
	"fmt"

	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

var (
	FaultUnknown = sysconfFault(
		code.SysconfUnknown, "unknown configuration install error", "",
	)

	// FaultNoRulesDir represents an error where no known udev rules
	// directory exists, which means there is nowhere to install the
	// project rules that tag scratch devices.
	FaultNoRulesDir = sysconfFault(
		code.SysconfNoInstallDir,
		"no udev rules directory found on this system",
		"expected /usr/lib/udev/rules.d or /lib/udev/rules.d to exist",
	)
)

// FaultSourceNotFound creates a Fault for the case where a configuration
// file that should ship with the project tree does not exist.
func FaultSourceNotFound(path string) *fault.Fault {
	return sysconfFault(
		code.SysconfSourceNotFound,
		fmt.Sprintf("configuration source %q does not exist", path),
		"point the harness at a complete project checkout",
	)
}

// FaultRestoreIncomplete creates a Fault for the case where one or more
// configuration files could not be put back after a run.
func FaultRestoreIncomplete(err error) *fault.Fault {
	return sysconfFault(
		code.SysconfRestoreFailed,
		fmt.Sprintf("configuration restore did not complete: %s", err),
		"the files listed above need to be put back by hand",
	)
}

func sysconfFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "sysconf",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
