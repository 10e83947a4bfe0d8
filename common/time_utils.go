//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package common

import (
	"time"
)

const (
	// Use ISO8601 format for timestamps as it's
	// widely supported by parsers (e.g. javascript, etc).
	iso8601 = "2006-01-02T15:04:05.000-07:00"
)

// FormatTime returns ISO8601 formatted representation of timestamp with
// millisecond resolution.
func FormatTime(t time.Time) string {
	return t.Format(iso8601)
}
