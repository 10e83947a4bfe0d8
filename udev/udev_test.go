//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udev

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/test"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

func TestUdev_Settle(t *testing.T) {
	for name, tc := range map[string]struct {
		runErr error
		expErr error
	}{
		"success": {},
		"settle fails": {
			runErr: errors.New("timeout"),
			expErr: errors.New("udevadm settle failed"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(name)
			defer test.ShowBufferOnFailure(t, buf)

			var gotCalls []string
			s := NewShaker(log, func(_ logging.Logger, _ []string, cmdStr string, args ...string) (string, error) {
				gotCalls = append(gotCalls, cmdStr+" "+strings.Join(args, " "))
				return "", tc.runErr
			})

			gotErr := s.Settle()

			test.CmpErr(t, tc.expErr, gotErr)
			if diff := cmp.Diff([]string{"udevadm settle"}, gotCalls); diff != "" {
				t.Fatalf("unexpected commands (-want, +got):\n%s\n", diff)
			}
		})
	}
}

func TestUdev_Shake(t *testing.T) {
	allCalls := []string{
		"udevadm control --reload",
		"udevadm trigger",
		"udevadm settle",
	}

	for name, tc := range map[string]struct {
		failOn   string
		expCalls []string
		expErr   error
	}{
		"success": {
			expCalls: allCalls,
		},
		"reload fails": {
			failOn:   "udevadm control --reload",
			expCalls: allCalls[:1],
			expErr:   errors.New("udevadm control --reload failed"),
		},
		"trigger fails": {
			failOn:   "udevadm trigger",
			expCalls: allCalls[:2],
			expErr:   errors.New("udevadm trigger failed"),
		},
		"settle fails": {
			failOn:   "udevadm settle",
			expCalls: allCalls,
			expErr:   errors.New("udevadm settle failed"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			log, buf := logging.NewTestLogger(name)
			defer test.ShowBufferOnFailure(t, buf)

			var gotCalls []string
			s := NewShaker(log, func(_ logging.Logger, _ []string, cmdStr string, args ...string) (string, error) {
				call := cmdStr + " " + strings.Join(args, " ")
				gotCalls = append(gotCalls, call)
				if call == tc.failOn {
					return "", errors.New("exit status 1")
				}
				return "", nil
			})

			gotErr := s.Shake()

			test.CmpErr(t, tc.expErr, gotErr)
			if diff := cmp.Diff(tc.expCalls, gotCalls); diff != "" {
				t.Fatalf("unexpected commands (-want, +got):\n%s\n", diff)
			}
		})
	}
}
