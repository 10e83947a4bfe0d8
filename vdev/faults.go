//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package vdev

import (
	"fmt"

	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

var (
	FaultUnknown = vdevFault(
		code.VdevUnknown, "unknown scratch device error", "",
	)

	// FaultNoDevicesAppeared represents an error where restoring the
	// target configuration succeeded but no new sd nodes showed up.
	FaultNoDevicesAppeared = vdevFault(
		code.VdevNoDevicesAppeared,
		"no new scratch devices appeared after restoring the target configuration",
		"check that the target_core_mod kernel module is available and inspect the targetcli output",
	)

	FaultMissingTargetcli = vdevFault(
		code.MissingSoftwareDependency,
		"targetcli utility not found",
		"install the targetcli software for your OS",
	)
)

// FaultConfigNotFound creates a Fault for the case where the targetcli
// configuration to restore does not exist.
func FaultConfigNotFound(path string) *fault.Fault {
	return vdevFault(
		code.VdevConfigNotFound,
		fmt.Sprintf("targetcli configuration %q does not exist", path),
		"point the harness at a project checkout containing the bundled target configuration",
	)
}

// FaultRestoreFailed creates a Fault for the case where targetcli could not
// restore the scratch device configuration.
func FaultRestoreFailed(err error) *fault.Fault {
	return vdevFault(
		code.VdevRestoreFailed,
		fmt.Sprintf("unable to set up scratch devices: %s", err),
		"inspect the targetcli output and clear any leftover target configuration",
	)
}

// FaultForeignDevice creates a Fault for the case where a device that showed
// up during provisioning does not carry the scratch disk model and therefore
// cannot be assumed to be ours.
func FaultForeignDevice(dev, model string) *fault.Fault {
	return vdevFault(
		code.VdevForeignDevice,
		fmt.Sprintf("device %q reports model %q, not a provisioned scratch device", dev, model),
		"a real disk may have been attached during provisioning; re-run on a quiescent machine",
	)
}

// FaultClearFailed creates a Fault for the case where targetcli could not
// tear the scratch device configuration back down.
func FaultClearFailed(err error) *fault.Fault {
	return vdevFault(
		code.VdevClearFailed,
		fmt.Sprintf("unable to remove scratch devices: %s", err),
		"remove the leftover target configuration with targetcli clearconfig confirm=True",
	)
}

func vdevFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "vdev",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
