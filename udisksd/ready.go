//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udisksd

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

const (
	// DefaultReadyTimeout bounds the wait for the daemon to claim its
	// well-known bus name.
	DefaultReadyTimeout = 30 * time.Second

	readyPollInterval = 250 * time.Millisecond

	dbusService = "org.freedesktop.DBus"
)

// Bus is the subset of message-bus operations needed to detect a
// running daemon.
type Bus interface {
	NameHasOwner(name string) (bool, error)
	StartService(name string) error
}

// SystemBus adapts a godbus connection to the Bus interface.
type SystemBus struct {
	Conn *dbus.Conn
}

// NameHasOwner reports whether any connection currently owns the given
// well-known name. The query never triggers service activation.
func (sb *SystemBus) NameHasOwner(name string) (bool, error) {
	var owned bool
	err := sb.Conn.BusObject().Call(dbusService+".NameHasOwner", 0, name).Store(&owned)
	if err != nil {
		return false, err
	}
	return owned, nil
}

// StartService asks the bus to activate the named service. Used in
// system mode, where the installed daemon only starts on demand.
func (sb *SystemBus) StartService(name string) error {
	var status uint32
	return sb.Conn.BusObject().Call(dbusService+".StartServiceByName", 0, name, uint32(0)).Store(&status)
}

// AwaitReady blocks until the daemon owns its well-known name on the
// bus. A receive on exited means the daemon process died before
// claiming the name; a nil channel may be passed when no child process
// is being monitored.
func AwaitReady(ctx context.Context, log logging.Logger, bus Bus, exited <-chan error, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}

	log.Debugf("waiting %s for %s to claim %s", timeout, build.DaemonName, build.BusName)

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		owned, err := bus.NameHasOwner(build.BusName)
		if err != nil {
			return errors.Wrapf(err, "unable to query ownership of %s", build.BusName)
		}
		if owned {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-exited:
			return FaultExited(err)
		case <-deadline.C:
			return FaultReadyTimeout(timeout)
		case <-ticker.C:
		}
	}
}
