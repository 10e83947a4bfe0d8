//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package build

import (
	"fmt"
	"strings"
)

func revString(version string) string {
	if ReleaseBuild {
		return version
	}

	parts := []string{version}
	if Revision != "" {
		rev := Revision
		if VCS == "git" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			rev = "g" + rev
		}
		parts = append(parts, rev)
		if DirtyBuild {
			parts = append(parts, "dirty")
		}
	}

	return strings.Join(parts, "-")
}

// String returns a string containing the name, version, and for non-release builds,
// the revision of the binary.
func String(name string) string {
	return fmt.Sprintf("%s version %s", name, revString(Version))
}
