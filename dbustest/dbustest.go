//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package dbustest runs integration checks against a live storage
// daemon over its D-Bus interface. Suites are plain Go values wired
// into a Registry; a Runner executes a selection of them against the
// environment the harness provisioned.
package dbustest

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
)

// ObjectBus is the slice of a bus connection that test cases use to
// talk to the daemon. *dbus.Conn satisfies it.
type ObjectBus interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Env carries everything a test case may touch: the provisioned
// scratch devices, the shared bus connection and run metadata. Cases
// receive it through T instead of reaching for process globals, so a
// case can only ever see what provisioning actually produced.
type Env struct {
	Log        logging.Logger
	Bus        ObjectBus
	Devices    []string
	Distro     system.Distribution
	ProjectDir string
	Recorder   *Recorder
}

// Case is a single named check.
type Case struct {
	Name string
	Run  func(*T)
}

// Suite is a named group of cases, addressable as "Suite" or
// "Suite.Case" on the command line.
type Suite struct {
	Name  string
	Cases []Case
}

// ConnectSystemBus opens a private connection to the system message
// bus. The daemon under test lives on the system bus, never the
// session bus.
func ConnectSystemBus() (*dbus.Conn, error) {
	conn, err := dbus.SystemBusPrivate()
	if err != nil {
		return nil, FaultBusUnavailable(err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, FaultBusUnavailable(err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, FaultBusUnavailable(err)
	}

	return conn, nil
}

type ctrlPanic string

const (
	failNowPanic ctrlPanic = "FailNow"
	skipNowPanic ctrlPanic = "SkipNow"
)

// T is the handle a running case uses to report failures, skip itself
// and attach diagnostics. Semantics follow testing.T: Fatalf aborts
// the case via a panic that the case runner unwinds.
type T struct {
	env      *Env
	name     string
	failed   bool
	failures []string
	skipped  bool
	skipMsg  string
}

func newT(env *Env, name string) *T {
	return &T{
		env:  env,
		name: name,
	}
}

// Env returns the run environment.
func (t *T) Env() *Env {
	return t.env
}

// Name returns the full "Suite.Case" name of the running case.
func (t *T) Name() string {
	return t.name
}

// Failed indicates whether the case has recorded any failure.
func (t *T) Failed() bool {
	return t.failed
}

// Logf writes a diagnostic line to the harness log.
func (t *T) Logf(format string, args ...interface{}) {
	t.env.Log.Debugf("%s: %s", t.name, fmt.Sprintf(format, args...))
}

// Errorf records a failure and lets the case continue.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	t.failures = append(t.failures, fmt.Sprintf(format, args...))
}

// Fatalf records a failure and aborts the case.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	t.FailNow()
}

// FailNow aborts the case immediately. It must be called from the
// goroutine running the case.
func (t *T) FailNow() {
	t.failed = true
	panic(failNowPanic)
}

// Skipf marks the case as skipped and aborts it.
func (t *T) Skipf(format string, args ...interface{}) {
	t.skipped = true
	t.skipMsg = fmt.Sprintf(format, args...)
	panic(skipNowPanic)
}

// Record writes a timestamped line to the flight record. Recording
// failures are logged but never fail the case.
func (t *T) Record(format string, args ...interface{}) {
	if t.env.Recorder == nil {
		return
	}
	if err := t.env.Recorder.Append(t.name, format, args...); err != nil {
		t.env.Log.Errorf("%s: %s", t.name, err)
	}
}
