//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//
package logging

import (
	"fmt"
	"log"
	"path"
)

func formatSource(file string, line, flags int) string {
	if file == "" || line == 0 {
		return ""
	}
	if flags&log.Lshortfile != 0 {
		file = path.Base(file)
	}
	return fmt.Sprintf("%s:%d", file, line)
}
