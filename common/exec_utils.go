//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package common

// ExitStatus implements the error interface and is used to indicate
// external process exit conditions.
type ExitStatus string

func (es ExitStatus) Error() string {
	return string(es)
}

// NormalExit indicates that the process exited without error.
const NormalExit ExitStatus = "process exited with 0"

// GetExitStatus ensures that a monitored process always returns an
// error of some sort when it exits so that callers can respond
// appropriately.
func GetExitStatus(err error) error {
	if err != nil {
		return err
	}

	return NormalExit
}
