//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package suites bundles the integration checks shipped with the
// harness. Each suite talks to the daemon under test over D-Bus and
// inspects the scratch devices the harness provisioned.
package suites

import (
	"bytes"
	"path/filepath"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
)

const (
	objectManagerPath  = "/org/freedesktop/UDisks2"
	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
	managerPath        = "/org/freedesktop/UDisks2/Manager"
	managerIface       = "org.freedesktop.UDisks2.Manager"
	blockDevicesPath   = "/org/freedesktop/UDisks2/block_devices"
	blockIface         = "org.freedesktop.UDisks2.Block"
	driveIface         = "org.freedesktop.UDisks2.Drive"
)

// RegisterAll wires every bundled suite into the registry.
func RegisterAll(reg *dbustest.Registry) error {
	for _, s := range []dbustest.Suite{
		ManagerSuite(),
		BlockSuite(),
		DriveSuite(),
	} {
		if err := reg.Register(s); err != nil {
			return err
		}
	}

	return nil
}

// blockObjectPath maps a device node to the daemon's block object.
func blockObjectPath(dev string) dbus.ObjectPath {
	return dbus.ObjectPath(blockDevicesPath + "/" + filepath.Base(dev))
}

// decodeDevicePath converts the daemon's NUL-terminated byte array
// representation of a device node back into a path.
func decodeDevicePath(v interface{}) (string, error) {
	b, ok := v.([]byte)
	if !ok {
		return "", errors.Errorf("unexpected device path type %T", v)
	}

	return string(bytes.TrimRight(b, "\x00")), nil
}
