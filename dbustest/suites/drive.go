//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package suites

import (
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
	"github.com/storaged-project/udisks/src/tests/harness/vdev"
)

// DriveSuite checks the drive objects backing the scratch devices.
func DriveSuite() dbustest.Suite {
	return dbustest.Suite{
		Name: "Drive",
		Cases: []dbustest.Case{
			{Name: "model", Run: driveModel},
		},
	}
}

func driveModel(t *dbustest.T) {
	devices := t.Env().Devices
	if len(devices) == 0 {
		t.Skipf("no scratch devices provisioned")
	}

	for _, dev := range devices {
		blockObj := t.Env().Bus.Object(build.BusName, blockObjectPath(dev))

		prop, err := blockObj.GetProperty(blockIface + ".Drive")
		if err != nil {
			t.Errorf("unable to read drive of %s: %s", dev, err)
			continue
		}

		drivePath, ok := prop.Value().(dbus.ObjectPath)
		if !ok {
			t.Errorf("%s: unexpected drive type %T", dev, prop.Value())
			continue
		}
		// The daemon exports "/" while it has no drive for a block
		// device yet.
		if !drivePath.IsValid() || drivePath == "/" {
			t.Errorf("%s has no backing drive object", dev)
			continue
		}

		driveObj := t.Env().Bus.Object(build.BusName, drivePath)
		prop, err = driveObj.GetProperty(driveIface + ".Model")
		if err != nil {
			t.Errorf("unable to read model of %s: %s", drivePath, err)
			continue
		}

		model, ok := prop.Value().(string)
		if !ok {
			t.Errorf("%s: unexpected model type %T", drivePath, prop.Value())
			continue
		}
		if got := strings.TrimSpace(model); got != vdev.ScratchModel {
			t.Errorf("%s reports model %q, want %q", dev, got, vdev.ScratchModel)
		}
	}
}
