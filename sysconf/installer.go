//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package sysconf

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

type (
	// RestoreEntry records how to undo one installed file.
	RestoreEntry struct {
		// Target is the installed path to undo.
		Target string
		// Delete is set when no original existed at Target, so undoing
		// means removing it rather than moving a stashed copy back.
		Delete bool
	}

	// RestoreList records installation effects in order.
	RestoreList []RestoreEntry

	// Installer swaps project configuration files into the system
	// configuration directories and back out.
	Installer struct {
		log logging.Logger
	}
)

func NewInstaller(log logging.Logger) *Installer {
	return &Installer{log: log}
}

// Install copies every manifest entry into place. Originals that would be
// overwritten are stashed in scratchDir first. The returned list reflects
// how far installation got and must be replayed by Restore even when an
// error is also returned.
func (inst *Installer) Install(m *Manifest, scratchDir string) (RestoreList, error) {
	restore := make(RestoreList, 0, len(m.Entries))

	for _, entry := range m.Entries {
		if err := os.MkdirAll(entry.TargetDir, 0755); err != nil {
			return restore, errors.Wrapf(err, "unable to create %s", entry.TargetDir)
		}
		target := filepath.Join(entry.TargetDir, filepath.Base(entry.Source))

		_, err := os.Stat(target)
		switch {
		case err == nil:
			stash := filepath.Join(scratchDir, filepath.Base(target))
			if err := common.MoveFile(target, stash); err != nil {
				return restore, errors.Wrapf(err, "unable to stash %s", target)
			}
			restore = append(restore, RestoreEntry{Target: target})
		case os.IsNotExist(err):
			restore = append(restore, RestoreEntry{Target: target, Delete: true})
		default:
			return restore, errors.Wrapf(err, "stat failed on %s", target)
		}

		if err := common.CpFile(entry.Source, target); err != nil {
			return restore, errors.Wrapf(err, "unable to install %s", entry.Source)
		}
		inst.log.Debugf("installed %s -> %s", entry.Source, target)
	}

	inst.log.Infof("installed %d configuration %s", len(restore),
		common.Pluralise("file", len(restore)))

	return restore, nil
}

// Restore undoes a recorded installation. Every entry is visited even when
// earlier ones fail and the failures are reported together, so one stuck
// file cannot strand the rest of the system configuration.
func (inst *Installer) Restore(list RestoreList, scratchDir string) error {
	errs := make([]error, 0)

	for _, entry := range list {
		if entry.Delete {
			if err := os.Remove(entry.Target); err != nil && !os.IsNotExist(err) {
				errs = append(errs, errors.Wrapf(err, "unable to remove %s", entry.Target))
			}
			continue
		}

		stash := filepath.Join(scratchDir, filepath.Base(entry.Target))
		if err := common.MoveFile(stash, entry.Target); err != nil {
			errs = append(errs, errors.Wrapf(err, "unable to restore %s", entry.Target))
		}
	}

	if len(errs) > 0 {
		return FaultRestoreIncomplete(common.ConcatErrors(errs, nil))
	}

	return nil
}
