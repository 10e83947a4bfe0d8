//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package harness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common/test"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

func TestHarness_CleanupStackOrder(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var ran []string
	record := func(name string) func() error {
		return func() error {
			ran = append(ran, name)
			return nil
		}
	}

	cs := &cleanupStack{}
	cs.push("first acquired", record("first"))
	cs.push("second acquired", record("second"))
	cs.push("third acquired", record("third"))

	if err := cs.run(log); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"third", "second", "first"}, ran); diff != "" {
		t.Fatalf("unexpected release order (-want, +got):\n%s", diff)
	}
	test.AssertEqual(t, 0, len(cs.steps), "stack not drained")
}

func TestHarness_CleanupStackAggregatesErrors(t *testing.T) {
	log, buf := logging.NewTestLogger(t.Name())
	defer test.ShowBufferOnFailure(t, buf)

	var ran []string
	cs := &cleanupStack{}
	cs.push("restore", func() error {
		ran = append(ran, "restore")
		return errors.New("original missing")
	})
	cs.push("stop daemon", func() error {
		ran = append(ran, "stop")
		return errors.New("kill failed")
	})

	err := cs.run(log)
	test.CmpErr(t, errors.New("stop daemon: kill failed"), err)
	test.CmpErr(t, errors.New("restore: original missing"), err)

	if diff := cmp.Diff([]string{"stop", "restore"}, ran); diff != "" {
		t.Fatalf("a failing step halted teardown (-want, +got):\n%s", diff)
	}
}
