//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//
package common

import (
	"io/ioutil"
	"os"
	"path"
	"testing"
)

func TestMoveFile(t *testing.T) {
	testDir, err := ioutil.TempDir("", t.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	t.Run("expected success", func(t *testing.T) {
		src := path.Join(testDir, "src")
		dst := path.Join(testDir, "dst")
		if err := ioutil.WriteFile(src, []byte("quack"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := MoveFile(src, dst); err != nil {
			t.Fatal(err)
		}

		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Fatalf("expected %q to be gone, got %v", src, err)
		}
		content, err := ioutil.ReadFile(dst)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "quack" {
			t.Fatalf("unexpected content %q", content)
		}
	})
	t.Run("missing source", func(t *testing.T) {
		err := MoveFile(path.Join(testDir, "nope"), path.Join(testDir, "dst2"))
		if err == nil {
			t.Fatal("expected move to fail")
		}
	})
}

func TestWriteFileAtomic(t *testing.T) {
	testDir, err := ioutil.TempDir("", t.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	dst := path.Join(testDir, "out.yml")
	if err := WriteFileAtomic(dst, []byte("moo"), 0644); err != nil {
		t.Fatal(err)
	}

	content, err := ioutil.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "moo" {
		t.Fatalf("unexpected content %q", content)
	}

	// No staging leftovers.
	if _, err := os.Stat(dst + ".staging"); !os.IsNotExist(err) {
		t.Fatalf("staging file still present: %v", err)
	}
}
