//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package dbustest

import (
	"fmt"

	"github.com/storaged-project/udisks/src/tests/harness/fault"
	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

var (
	FaultUnknown = testFault(
		code.TestUnknown, "unknown test execution error", "",
	)

	// FaultNoneMatched represents an error where name selection
	// resolved but yielded nothing to run.
	FaultNoneMatched = testFault(
		code.TestNoneMatched,
		"no test cases matched the requested selection",
		"use the list-tests command to see the available suites and cases",
	)
)

// FaultUnknownTest creates a Fault for a name filter that does not
// match any registered suite or case.
func FaultUnknownTest(filter string) *fault.Fault {
	return testFault(
		code.TestUnknownName,
		fmt.Sprintf("unknown test name %q", filter),
		"use the list-tests command to see the available suites and cases",
	)
}

// FaultBusUnavailable creates a Fault for a failed system bus
// connection.
func FaultBusUnavailable(err error) *fault.Fault {
	return testFault(
		code.TestBusUnavailable,
		fmt.Sprintf("unable to connect to the system message bus: %s", err),
		"check that dbus-daemon is running and that the harness runs as root",
	)
}

func testFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "dbustest",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
