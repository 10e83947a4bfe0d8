//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package suites

import (
	"github.com/godbus/dbus/v5"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
)

// ManagerSuite checks the daemon's top-level manager object.
func ManagerSuite() dbustest.Suite {
	return dbustest.Suite{
		Name: "Manager",
		Cases: []dbustest.Case{
			{Name: "version", Run: managerVersion},
			{Name: "objects", Run: managerObjects},
		},
	}
}

func managerVersion(t *dbustest.T) {
	obj := t.Env().Bus.Object(build.BusName, managerPath)

	prop, err := obj.GetProperty(managerIface + ".Version")
	if err != nil {
		t.Fatalf("unable to read daemon version: %s", err)
	}

	version, ok := prop.Value().(string)
	if !ok {
		t.Fatalf("unexpected version type %T", prop.Value())
	}
	if version == "" {
		t.Errorf("daemon reports an empty version")
		return
	}

	t.Logf("daemon version %s", version)
	t.Record("daemon version %s on %s", version, t.Env().Distro)
}

func managerObjects(t *dbustest.T) {
	obj := t.Env().Bus.Object(build.BusName, objectManagerPath)

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	if err := obj.Call(objectManagerIface+".GetManagedObjects", 0).Store(&objects); err != nil {
		t.Fatalf("unable to enumerate managed objects: %s", err)
	}

	if _, found := objects[managerPath]; !found {
		t.Errorf("manager object %s missing from %d managed objects",
			managerPath, len(objects))
	}

	for _, dev := range t.Env().Devices {
		if _, found := objects[blockObjectPath(dev)]; !found {
			t.Errorf("no block object exported for %s", dev)
		}
	}

	t.Record("daemon exports %d objects", len(objects))
}
