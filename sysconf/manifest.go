//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package sysconf installs the project's configuration files (udev rules,
// D-Bus policy, polkit actions, daemon config) into the system directories
// for the duration of a run and restores the originals afterwards.
package sysconf

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
)

const (
	udevRulesFile  = "80-udisks2.rules"
	dbusPolicyFile = "org.freedesktop.UDisks2.conf"
	daemonConfFile = "udisks2.conf"
)

// Install directories, relative to the filesystem root so that tests can
// redirect them.
const (
	dbusPolicyDir   = "etc/dbus-1/system.d"
	polkitActionDir = "usr/share/polkit-1/actions"
	daemonConfDir   = "etc/udisks2"
)

// Candidate udev rules directories, preferred first.
var udevRulesDirs = []string{"usr/lib/udev/rules.d", "lib/udev/rules.d"}

type (
	// Entry pairs one configuration source file with the directory it
	// installs into.
	Entry struct {
		Source    string
		TargetDir string
	}

	// Manifest is the ordered set of configuration files a daemon run
	// needs in place.
	Manifest struct {
		Entries []Entry
	}
)

// BuildManifest resolves the configuration sources in the project tree
// against this system's install directories.
func BuildManifest(projDir string) (*Manifest, error) {
	return buildManifest(projDir, "/")
}

func buildManifest(projDir, rootDir string) (*Manifest, error) {
	m := new(Manifest)

	rulesDir, err := findRulesDir(rootDir)
	if err != nil {
		return nil, err
	}
	if err := m.add(filepath.Join(projDir, "data", udevRulesFile), rulesDir); err != nil {
		return nil, err
	}

	if err := m.add(filepath.Join(projDir, "data", dbusPolicyFile),
		filepath.Join(rootDir, dbusPolicyDir)); err != nil {
		return nil, err
	}

	policies, err := findPolicies(projDir)
	if err != nil {
		return nil, err
	}
	for _, policy := range policies {
		if err := m.add(policy, filepath.Join(rootDir, polkitActionDir)); err != nil {
			return nil, err
		}
	}

	if err := m.add(filepath.Join(projDir, "udisks", daemonConfFile),
		filepath.Join(rootDir, daemonConfDir)); err != nil {
		return nil, err
	}

	return m, nil
}

func findRulesDir(rootDir string) (string, error) {
	for _, dir := range udevRulesDirs {
		path := filepath.Join(rootDir, dir)
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			return path, nil
		}
	}

	return "", FaultNoRulesDir
}

// findPolicies collects the polkit action definitions shipped by the
// project core and by each bundled module.
func findPolicies(projDir string) ([]string, error) {
	dirs := []string{filepath.Join(projDir, "data")}

	moduleDirs, err := filepath.Glob(filepath.Join(projDir, "modules", "*", "data"))
	if err != nil {
		return nil, errors.Wrap(err, "bad module data pattern")
	}
	dirs = append(dirs, moduleDirs...)

	policies := make([]string, 0)
	for _, dir := range dirs {
		found, err := common.GetFilePaths(dir, ".policy")
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "unable to scan %s", dir)
		}
		policies = append(policies, found...)
	}

	return policies, nil
}

func (m *Manifest) add(source, targetDir string) error {
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return FaultSourceNotFound(source)
		}
		return errors.Wrapf(err, "stat failed on %s", source)
	}

	target := filepath.Join(targetDir, filepath.Base(source))
	for _, entry := range m.Entries {
		if filepath.Join(entry.TargetDir, filepath.Base(entry.Source)) == target {
			// two sources land on the same target; first one wins
			return nil
		}
	}

	m.Entries = append(m.Entries, Entry{Source: source, TargetDir: targetDir})
	return nil
}
