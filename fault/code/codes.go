//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package code is a central repository for all test harness fault codes.
package code

import (
	"encoding/json"
	"strconv"
)

// Code represents a stable fault code.
//
// NB: All harness errors should register their codes in the
// following block in order to avoid conflicts.
//
// Also note that new codes should always be added at the bottom of
// their respective blocks. This ensures stability of fault codes
// over time.
type Code int

// UnmarshalJSON implements a custom unmarshaler
// to convert an int or string code to a Code.
func (c *Code) UnmarshalJSON(data []byte) (err error) {
	var ic int
	if err = json.Unmarshal(data, &ic); err == nil {
		*c = Code(ic)
		return
	}

	var sc string
	if err = json.Unmarshal(data, &sc); err != nil {
		return
	}

	if ic, err = strconv.Atoi(sc); err == nil {
		*c = Code(ic)
	}
	return
}

const (
	// general fault codes
	Unknown Code = iota
	MissingSoftwareDependency
	PrivilegesRequired
	DuplicateDaemonProcess
)

const (
	// scratch device provisioning fault codes
	VdevUnknown Code = iota + 100
	VdevConfigNotFound
	VdevRestoreFailed
	VdevNoDevicesAppeared
	VdevForeignDevice
	VdevClearFailed
)

const (
	// system configuration install fault codes
	SysconfUnknown Code = iota + 200
	SysconfSourceNotFound
	SysconfNoInstallDir
	SysconfRestoreFailed
)

const (
	// daemon lifecycle fault codes
	DaemonUnknown Code = iota + 300
	DaemonNotFound
	DaemonStartFailed
	DaemonExited
	DaemonReadyTimeout
)

const (
	// test execution fault codes
	TestUnknown Code = iota + 400
	TestNoneMatched
	TestBusUnavailable
	TestUnknownName
)
