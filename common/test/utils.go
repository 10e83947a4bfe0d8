//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package test provides common helpers for unit tests.
package test

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/fault"
)

// CmpErrBool compares two errors and returns a boolean value indicating
// equality or at least close similarity between their messages.
func CmpErrBool(want, got error) bool {
	if want == got {
		return true
	}

	if want == nil || got == nil {
		return false
	}

	wantFault, wantOk := errors.Cause(want).(*fault.Fault)
	gotFault, gotOk := errors.Cause(got).(*fault.Fault)
	if wantOk && gotOk {
		return wantFault.Equals(gotFault)
	}

	return strings.Contains(got.Error(), want.Error())
}

// CmpErr compares two errors and fails the test if their messages are
// dissimilar.
func CmpErr(t *testing.T, want, got error) {
	t.Helper()

	if !CmpErrBool(want, got) {
		t.Fatalf("unexpected error\n(wanted: %v, got: %v)", want, got)
	}
}

// ShowBufferOnFailure displays captured output on test failure. Should be run
// via defer in the test function.
func ShowBufferOnFailure(t *testing.T, buf fmt.Stringer) {
	t.Helper()

	if t.Failed() {
		fmt.Printf("captured log output:\n%s", buf.String())
	}
	if bc, ok := buf.(interface{ Reset() }); ok {
		bc.Reset()
	}
}

// AssertTrue asserts b is true
func AssertTrue(t *testing.T, b bool, message string) {
	t.Helper()

	if !b {
		t.Fatal(message)
	}
}

// AssertFalse asserts b is false
func AssertFalse(t *testing.T, b bool, message string) {
	t.Helper()

	if b {
		t.Fatal(message)
	}
}

// AssertEqual asserts b is equal to a
//
// Whilst suitable in most situations, reflect.DeepEqual() may not be
// suitable for nontrivial struct element comparisons, go-cmp should
// then be used.
func AssertEqual(t *testing.T, a interface{}, b interface{}, message string) {
	t.Helper()

	if reflect.DeepEqual(a, b) {
		return
	}
	if len(message) > 0 {
		message += ", "
	}

	t.Fatalf(message+"%#v != %#v", a, b)
}

// CreateTestDir creates a temporary test directory.
// It returns the path to the directory and a cleanup function.
func CreateTestDir(t *testing.T) (string, func()) {
	t.Helper()

	name := strings.Replace(t.Name(), "/", "-", -1)
	tmpDir, err := os.MkdirTemp("", name)
	if err != nil {
		t.Fatalf("couldn't create temporary directory: %v", err)
	}

	return tmpDir, func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Fatalf("couldn't remove tmp dir: %v", err)
		}
	}
}

// CreateTestFile creates a file in the given directory with a random name,
// and writes the content string to the file. It returns the path to the
// file.
func CreateTestFile(t *testing.T, dir, content string) string {
	t.Helper()

	file, err := os.CreateTemp(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := file.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}

	return file.Name()
}
