//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udisksd

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type subConfig struct {
	NestedIntOpt int `cmdLongFlag:"--nested_int"`
}

type testTagConfig struct {
	NonzeroIntOpt int    `cmdLongFlag:"--zero,nonzero"`
	IntOpt        int    `cmdLongFlag:"--int"`
	StringOpt     string `cmdLongFlag:"--string"`
	UnsetString   string `cmdLongFlag:"--unset_string"`
	SetBoolOpt    bool   `cmdLongFlag:"--set_bool"`
	UnsetBoolOpt  bool   `cmdLongFlag:"--unset_bool"`
	IntEnv        int    `cmdEnv:"INT_ENV"`
	StringEnv     string `cmdEnv:"STRING_ENV"`
	SetBoolEnv    bool   `cmdEnv:"SET_BOOL_ENV"`
	UnsetBoolEnv  bool   `cmdEnv:"UNSET_BOOL_ENV"`
	Nested        subConfig
}

var testTagStruct = &testTagConfig{
	IntOpt:     -1,
	StringOpt:  "stringOpt",
	SetBoolOpt: true,
	IntEnv:     -1,
	StringEnv:  "stringEnv",
	SetBoolEnv: true,
	Nested: subConfig{
		NestedIntOpt: 2,
	},
}

func TestUdisksd_ParseLongFlags(t *testing.T) {
	got, err := parseCmdTags(testTagStruct, longFlagTag, joinLongArgs)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"--int=-1",
		"--string=stringOpt",
		"--set_bool",
		"--nested_int=2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want, +got):\n%s", diff)
	}
}

func TestUdisksd_ParseEnvVars(t *testing.T) {
	got, err := parseCmdTags(testTagStruct, envTag, joinEnvVars)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"INT_ENV=-1",
		"STRING_ENV=stringEnv",
		"SET_BOOL_ENV=true",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want, +got):\n%s", diff)
	}
}

func TestUdisksd_ParseSkipsOpaqueFields(t *testing.T) {
	// A writer holds a struct full of unexported fields; the
	// walker must not try to descend into them.
	test := struct {
		Flag bool `cmdLongFlag:"--flag"`
		Out  io.Writer
	}{
		Flag: true,
		Out:  &bytes.Buffer{},
	}

	got, err := parseCmdTags(&test, longFlagTag, joinLongArgs)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"--flag"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want, +got):\n%s", diff)
	}
}

func TestUdisksd_ParseUnhandledType(t *testing.T) {
	test := struct {
		Bad interface{} `cmdLongFlag:"--blerp"`
	}{
		Bad: 1,
	}

	_, err := parseCmdTags(&test, longFlagTag, joinLongArgs)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestUdisksd_NilJoinFunction(t *testing.T) {
	_, err := parseCmdTags(testTagStruct, longFlagTag, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
