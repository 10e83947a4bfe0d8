//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package build provides an importable repository of variables set at build time.
package build

var (
	// ConfigDir should be set via linker flag using the value of CONF_DIR.
	ConfigDir string = "./"
	// Version should be set via linker flag using the value of UDISKS_VERSION.
	Version string = "unset"
	// ToolName defines a consistent name for the test runner binary.
	ToolName = "udisks-test-runner"
	// DaemonName defines the file name of the daemon under test.
	DaemonName = "udisksd"
	// BusName defines the well-known D-Bus name claimed by the daemon.
	BusName = "org.freedesktop.UDisks2"

	// ReleaseBuild should be set to true via linker flag for release builds.
	ReleaseBuild bool
	// Revision is the VCS revision of the built source tree, if known.
	Revision string
	// DirtyBuild indicates whether the source tree had uncommitted changes.
	DirtyBuild bool
	// VCS names the version control system the revision was read from.
	VCS string
)
