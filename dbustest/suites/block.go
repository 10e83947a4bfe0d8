//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package suites

import (
	"github.com/dustin/go-humanize"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
)

// BlockSuite checks the block objects exported for the scratch
// devices.
func BlockSuite() dbustest.Suite {
	return dbustest.Suite{
		Name: "Block",
		Cases: []dbustest.Case{
			{Name: "device_path", Run: blockDevicePath},
			{Name: "size", Run: blockSize},
		},
	}
}

func blockDevicePath(t *dbustest.T) {
	devices := t.Env().Devices
	if len(devices) == 0 {
		t.Skipf("no scratch devices provisioned")
	}

	for _, dev := range devices {
		obj := t.Env().Bus.Object(build.BusName, blockObjectPath(dev))

		prop, err := obj.GetProperty(blockIface + ".Device")
		if err != nil {
			t.Errorf("unable to read device path of %s: %s", dev, err)
			continue
		}

		path, err := decodeDevicePath(prop.Value())
		if err != nil {
			t.Errorf("%s: %s", dev, err)
			continue
		}
		if path != dev {
			t.Errorf("block object for %s reports device path %q", dev, path)
		}
	}
}

func blockSize(t *dbustest.T) {
	devices := t.Env().Devices
	if len(devices) == 0 {
		t.Skipf("no scratch devices provisioned")
	}

	for _, dev := range devices {
		obj := t.Env().Bus.Object(build.BusName, blockObjectPath(dev))

		prop, err := obj.GetProperty(blockIface + ".Size")
		if err != nil {
			t.Errorf("unable to read size of %s: %s", dev, err)
			continue
		}

		size, ok := prop.Value().(uint64)
		if !ok {
			t.Errorf("%s: unexpected size type %T", dev, prop.Value())
			continue
		}
		if size == 0 {
			t.Errorf("%s reports zero size", dev)
			continue
		}

		t.Record("%s is %s", dev, humanize.IBytes(size))
	}
}
