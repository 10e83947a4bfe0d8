//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package vdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/test"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
)

type mockSettler struct {
	err error
}

func (ms *mockSettler) Settle() error { return ms.err }

func createDevNode(t *testing.T, devDir, name string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(devDir, name), nil, 0600); err != nil {
		t.Fatal(err)
	}
}

func createSysfsEntry(t *testing.T, sysBlockDir, name, model string, sectors uint64) {
	t.Helper()

	devDir := filepath.Join(sysBlockDir, name, "device")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		t.Fatal(err)
	}
	// the model attribute is space-padded on real systems
	model = fmt.Sprintf("%-16s\n", model)
	if err := os.WriteFile(filepath.Join(devDir, "model"), []byte(model), 0644); err != nil {
		t.Fatal(err)
	}
	size := strconv.FormatUint(sectors, 10) + "\n"
	if err := os.WriteFile(filepath.Join(sysBlockDir, name, "size"), []byte(size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVdev_Setup(t *testing.T) {
	type scratchDev struct {
		name    string
		model   string
		sectors uint64
	}

	for name, tc := range map[string]struct {
		existing    []string
		newDevs     []scratchDev
		missingCfg  bool
		lookPathErr error
		restoreErr  error
		settleErr   error
		expDevs     []string
		expErr      error
	}{
		"clean provision": {
			existing: []string{"sda", "sda1", "loop0"},
			newDevs: []scratchDev{
				{"sdc", "udisks_test_dis", 4194304},
				{"sdb", "udisks_test_dis", 2097152},
			},
			expDevs: []string{"sdb", "sdc"},
		},
		"no preexisting devices": {
			newDevs: []scratchDev{
				{"sda", "udisks_test_dis", 2097152},
			},
			expDevs: []string{"sda"},
		},
		"targetcli missing": {
			lookPathErr: errors.New("not found"),
			expErr:      FaultMissingTargetcli,
		},
		"missing config": {
			missingCfg: true,
			expErr:     FaultConfigNotFound("/nonexistent/targetcli_config.json"),
		},
		"restoreconfig fails": {
			restoreErr: errors.New("exit status 1"),
			expErr:     FaultRestoreFailed(errors.New("exit status 1")),
		},
		"settle fails": {
			newDevs: []scratchDev{
				{"sdb", "udisks_test_dis", 2097152},
			},
			settleErr: errors.New("udev queue never drained"),
			expErr:    errors.New("udev queue never drained"),
		},
		"no new devices": {
			existing: []string{"sda"},
			expErr:   FaultNoDevicesAppeared,
		},
		"foreign device": {
			existing: []string{"sda"},
			newDevs: []scratchDev{
				{"sdb", "WDC WD10EZEX", 1953525168},
			},
			expErr: FaultForeignDevice("sdb", "WDC WD10EZEX"),
		},
		"device without sysfs entry": {
			newDevs: []scratchDev{
				{"sdb", "", 0},
			},
			expErr: errors.New("unable to read model of sdb"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(name)
			defer test.ShowBufferOnFailure(t, buf)

			devDir, cleanupDev := test.CreateTestDir(t)
			defer cleanupDev()
			sysBlockDir, cleanupSys := test.CreateTestDir(t)
			defer cleanupSys()
			cfgDir, cleanupCfg := test.CreateTestDir(t)
			defer cleanupCfg()

			cfgPath := test.CreateTestFile(t, cfgDir, "{}")
			if tc.missingCfg {
				cfgPath = "/nonexistent/targetcli_config.json"
			}

			for _, devName := range tc.existing {
				createDevNode(t, devDir, devName)
			}

			var gotCmds []string
			p := &Provisioner{
				log: log,
				runCmd: func(_ logging.Logger, _ []string, cmdStr string, args ...string) (string, error) {
					gotCmds = append(gotCmds, cmdStr+" "+strings.Join(args, " "))
					if tc.restoreErr != nil {
						return "", tc.restoreErr
					}
					for _, nd := range tc.newDevs {
						createDevNode(t, devDir, nd.name)
						if nd.model != "" {
							createSysfsEntry(t, sysBlockDir, nd.name, nd.model, nd.sectors)
						}
					}
					return "", nil
				},
				lookPath: func(string) (string, error) {
					return "/usr/bin/targetcli", tc.lookPathErr
				},
				settler:     &mockSettler{err: tc.settleErr},
				sys:         system.DefaultMockSysProvider(log),
				devDir:      devDir,
				sysBlockDir: sysBlockDir,
			}

			gotResp, gotErr := p.Setup(SetupRequest{ConfigPath: cfgPath})

			test.CmpErr(t, tc.expErr, gotErr)
			if tc.expErr != nil {
				return
			}

			expDevs := make([]string, len(tc.expDevs))
			for i, devName := range tc.expDevs {
				expDevs[i] = filepath.Join(devDir, devName)
			}
			if diff := cmp.Diff(expDevs, gotResp.Devices); diff != "" {
				t.Fatalf("unexpected devices (-want, +got):\n%s\n", diff)
			}

			expCmds := []string{"targetcli restoreconfig " + cfgPath}
			if diff := cmp.Diff(expCmds, gotCmds); diff != "" {
				t.Fatalf("unexpected commands (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestVdev_Clear(t *testing.T) {
	for name, tc := range map[string]struct {
		devices      []string
		sysCfg       *system.MockSysConfig
		lookPathErr  error
		clearErr     error
		backing      []string
		keep         []string
		expUnmounts  int
		expClearCall bool
		expErr       error
	}{
		"clean": {
			backing:      []string{"udisks_test_disk1", "udisks_test_disk2"},
			keep:         []string{"unrelated_file"},
			expClearCall: true,
		},
		"mounted device gets unmounted": {
			devices:      []string{"sdb"},
			sysCfg:       &system.MockSysConfig{IsMountedBool: true},
			expUnmounts:  1,
			expClearCall: true,
		},
		"device node already gone": {
			devices:      []string{"sdb"},
			sysCfg:       &system.MockSysConfig{IsMountedErr: os.ErrNotExist},
			expClearCall: true,
		},
		"unmount fails": {
			devices:      []string{"sdb"},
			sysCfg:       &system.MockSysConfig{IsMountedBool: true, UnmountErr: errors.New("target is busy")},
			expUnmounts:  1,
			expClearCall: true,
			expErr:       errors.New("target is busy"),
		},
		"clearconfig fails": {
			clearErr:     errors.New("exit status 1"),
			backing:      []string{"udisks_test_disk1"},
			expClearCall: true,
			expErr:       errors.New("unable to remove scratch devices"),
		},
		"targetcli missing": {
			lookPathErr: errors.New("not found"),
			backing:     []string{"udisks_test_disk1"},
			expErr:      errors.New("targetcli utility not found"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(name)
			defer test.ShowBufferOnFailure(t, buf)

			devDir, cleanupDev := test.CreateTestDir(t)
			defer cleanupDev()
			backingDir, cleanupBacking := test.CreateTestDir(t)
			defer cleanupBacking()

			for _, fileName := range append(append([]string{}, tc.backing...), tc.keep...) {
				if err := os.WriteFile(filepath.Join(backingDir, fileName), []byte("x"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			devices := make([]string, len(tc.devices))
			for i, devName := range tc.devices {
				createDevNode(t, devDir, devName)
				devices[i] = filepath.Join(devDir, devName)
			}

			sys := system.NewMockSysProvider(log, tc.sysCfg)

			var gotCmds []string
			p := &Provisioner{
				log: log,
				runCmd: func(_ logging.Logger, _ []string, cmdStr string, args ...string) (string, error) {
					gotCmds = append(gotCmds, cmdStr+" "+strings.Join(args, " "))
					return "", tc.clearErr
				},
				lookPath: func(string) (string, error) {
					return "/usr/bin/targetcli", tc.lookPathErr
				},
				sys:         sys,
				devDir:      devDir,
				backingGlob: filepath.Join(backingDir, "udisks_test_disk*"),
			}

			gotErr := p.Clear(devices)

			test.CmpErr(t, tc.expErr, gotErr)
			test.AssertEqual(t, tc.expUnmounts, len(sys.UnmountInputs), "unexpected unmount count")

			var expCmds []string
			if tc.expClearCall {
				expCmds = []string{"targetcli clearconfig confirm=True"}
			}
			if diff := cmp.Diff(expCmds, gotCmds); diff != "" {
				t.Fatalf("unexpected commands (-want, +got):\n%s\n", diff)
			}

			// backing file removal is attempted no matter what failed earlier
			for _, fileName := range tc.backing {
				if _, err := os.Stat(filepath.Join(backingDir, fileName)); !os.IsNotExist(err) {
					t.Fatalf("backing file %s was not removed", fileName)
				}
			}
			for _, fileName := range tc.keep {
				if _, err := os.Stat(filepath.Join(backingDir, fileName)); err != nil {
					t.Fatalf("unrelated file %s should have survived: %v", fileName, err)
				}
			}
		})
	}
}
