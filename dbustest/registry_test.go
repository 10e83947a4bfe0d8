//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package dbustest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/test"
)

func noopCase(name string) Case {
	return Case{Name: name, Run: func(*T) {}}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry()
	for _, s := range []Suite{
		{Name: "Manager", Cases: []Case{noopCase("version"), noopCase("objects")}},
		{Name: "Block", Cases: []Case{noopCase("device_path"), noopCase("size")}},
		{Name: "Drive", Cases: []Case{noopCase("model")}},
	} {
		if err := reg.Register(s); err != nil {
			t.Fatal(err)
		}
	}

	return reg
}

func suiteNames(suites []Suite) []string {
	var names []string
	for _, s := range suites {
		for _, c := range s.Cases {
			names = append(names, s.Name+"."+c.Name)
		}
	}
	return names
}

func TestDbustest_RegistryRegister(t *testing.T) {
	for name, tc := range map[string]struct {
		suite  Suite
		expErr error
	}{
		"valid suite": {
			suite: Suite{Name: "Loop", Cases: []Case{noopCase("setup")}},
		},
		"empty name": {
			suite:  Suite{Cases: []Case{noopCase("setup")}},
			expErr: errors.New("suite name must not be empty"),
		},
		"dotted name": {
			suite:  Suite{Name: "Loop.Setup", Cases: []Case{noopCase("x")}},
			expErr: errors.New("must not contain a dot"),
		},
		"duplicate suite": {
			suite:  Suite{Name: "Manager", Cases: []Case{noopCase("x")}},
			expErr: errors.New(`duplicate suite name "Manager"`),
		},
		"duplicate case": {
			suite:  Suite{Name: "Loop", Cases: []Case{noopCase("setup"), noopCase("setup")}},
			expErr: errors.New(`duplicate case "setup"`),
		},
		"case without run function": {
			suite:  Suite{Name: "Loop", Cases: []Case{{Name: "setup"}}},
			expErr: errors.New("incomplete case"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			reg := testRegistry(t)
			gotErr := reg.Register(tc.suite)
			test.CmpErr(t, tc.expErr, gotErr)
		})
	}
}

func TestDbustest_RegistrySuitesSorted(t *testing.T) {
	reg := testRegistry(t)

	want := []string{
		"Block.device_path", "Block.size",
		"Drive.model",
		"Manager.version", "Manager.objects",
	}
	if diff := cmp.Diff(want, suiteNames(reg.Suites())); diff != "" {
		t.Fatalf("unexpected suites (-want, +got):\n%s", diff)
	}
}

func TestDbustest_Select(t *testing.T) {
	for name, tc := range map[string]struct {
		emptyRegistry bool
		filters       []string
		expNames      []string
		expErr        error
	}{
		"no filters runs everything": {
			expNames: []string{
				"Block.device_path", "Block.size",
				"Drive.model",
				"Manager.version", "Manager.objects",
			},
		},
		"suite filter": {
			filters:  []string{"Block"},
			expNames: []string{"Block.device_path", "Block.size"},
		},
		"case filter": {
			filters:  []string{"Block.size"},
			expNames: []string{"Block.size"},
		},
		"multiple filters": {
			filters:  []string{"Drive", "Block.size"},
			expNames: []string{"Block.size", "Drive.model"},
		},
		"case filters merge in suite order": {
			filters:  []string{"Block.size", "Block.device_path"},
			expNames: []string{"Block.device_path", "Block.size"},
		},
		"suite filter wins over case filter": {
			filters:  []string{"Block.size", "Block"},
			expNames: []string{"Block.device_path", "Block.size"},
		},
		"repeated case filter": {
			filters:  []string{"Drive.model", "Drive.model"},
			expNames: []string{"Drive.model"},
		},
		"unknown suite": {
			filters: []string{"Partition"},
			expErr:  FaultUnknownTest("Partition"),
		},
		"unknown case": {
			filters: []string{"Block.checksum"},
			expErr:  FaultUnknownTest("Block.checksum"),
		},
		"nothing registered": {
			emptyRegistry: true,
			expErr:        FaultNoneMatched,
		},
	} {
		t.Run(name, func(t *testing.T) {
			reg := testRegistry(t)
			if tc.emptyRegistry {
				reg = NewRegistry()
			}

			gotSuites, gotErr := Select(reg, tc.filters)

			test.CmpErr(t, tc.expErr, gotErr)
			if tc.expErr != nil {
				return
			}

			if diff := cmp.Diff(tc.expNames, suiteNames(gotSuites)); diff != "" {
				t.Fatalf("unexpected selection (-want, +got):\n%s", diff)
			}
		})
	}
}
