//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package harness drives a full integration run against the storage
// daemon: provision scratch devices, install the project's system
// configuration, start the daemon, execute the selected test suites
// over D-Bus and tear everything back down.
package harness

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
	"github.com/storaged-project/udisks/src/tests/harness/journal"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
	"github.com/storaged-project/udisks/src/tests/harness/sysconf"
	"github.com/storaged-project/udisks/src/tests/harness/udev"
	"github.com/storaged-project/udisks/src/tests/harness/udisksd"
	"github.com/storaged-project/udisks/src/tests/harness/vdev"
)

const (
	scratchPrefix     = "udisks-tst-"
	daemonStopTimeout = 10 * time.Second
)

// RunState tracks how far a harness run has progressed.
type RunState int

const (
	StateInit RunState = iota
	StateDevicesProvisioned
	StateConfigsInstalled
	StateDaemonRunning
	StateTestsExecuted
	StateTornDown
)

func (s RunState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDevicesProvisioned:
		return "devices provisioned"
	case StateConfigsInstalled:
		return "configs installed"
	case StateDaemonRunning:
		return "daemon running"
	case StateTestsExecuted:
		return "tests executed"
	case StateTornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

type (
	deviceProvider interface {
		Setup(vdev.SetupRequest) (*vdev.SetupResponse, error)
		Clear([]string) error
	}

	configInstaller interface {
		Install(*sysconf.Manifest, string) (sysconf.RestoreList, error)
		Restore(sysconf.RestoreList, string) error
	}

	udevController interface {
		Shake() error
	}

	journalDumper interface {
		Dump(time.Time, string)
	}

	suiteRunner interface {
		Run(context.Context, *dbustest.Env, []dbustest.Suite) (*dbustest.Result, error)
	}

	daemonRunner interface {
		Start(context.Context, chan<- error) error
		Signal(os.Signal) error
		IsRunning() bool
	}

	// busConn is the slice of the system bus connection the harness
	// needs: readiness queries for the daemon plus object access for
	// the test cases.
	busConn interface {
		udisksd.Bus
		dbustest.ObjectBus
		Close() error
	}
)

// systemBus adapts a private system bus connection to busConn.
type systemBus struct {
	udisksd.SystemBus
}

func (b *systemBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return b.Conn.Object(dest, path)
}

func (b *systemBus) Close() error {
	return b.Conn.Close()
}

func connectSystemBus() (busConn, error) {
	conn, err := dbustest.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	return &systemBus{SystemBus: udisksd.SystemBus{Conn: conn}}, nil
}

// Harness wires provisioning, daemon control and test execution into
// one run. Collaborators are held behind narrow interfaces so runs can
// be exercised without a real host.
type Harness struct {
	log         logging.Logger
	cfg         *Config
	registry    *dbustest.Registry
	state       RunState
	stopTimeout time.Duration

	devices   deviceProvider
	installer configInstaller
	shaker    udevController
	journal   journalDumper
	suites    suiteRunner

	buildManifest func(string) (*sysconf.Manifest, error)
	findDaemon    func(string, bool) (string, error)
	newRunner     func(*udisksd.Config) daemonRunner
	connectBus    func() (busConn, error)
	geteuid       func() int
	checkRunner   func() error
	daemonPids    func(string) ([]int, error)
}

// New returns a Harness wired with production components.
func New(log logging.Logger, cfg *Config, reg *dbustest.Registry) *Harness {
	return &Harness{
		log:         log,
		cfg:         cfg,
		registry:    reg,
		stopTimeout: daemonStopTimeout,
		devices:     vdev.DefaultProvisioner(log),
		installer:   sysconf.NewInstaller(log),
		shaker:      udev.DefaultShaker(log),
		journal:     journal.DefaultDumper(log),
		suites:      dbustest.NewRunner(log),

		buildManifest: sysconf.BuildManifest,
		findDaemon:    udisksd.FindDaemon,
		newRunner: func(dc *udisksd.Config) daemonRunner {
			return udisksd.NewRunner(log, dc)
		},
		connectBus:  connectSystemBus,
		geteuid:     os.Geteuid,
		checkRunner: common.CheckDupeProcess,
		daemonPids:  common.GetProcPids,
	}
}

// State reports how far the last Run got.
func (h *Harness) State() RunState {
	return h.state
}

// checkHost refuses runs that lack the privileges to provision devices
// or would fight another runner or daemon instance.
func (h *Harness) checkHost() error {
	if h.geteuid() != 0 {
		return FaultPrivilegesRequired
	}

	if err := h.checkRunner(); err != nil {
		return err
	}

	if !h.cfg.SystemDaemon {
		pids, err := h.daemonPids(build.DaemonName)
		if err != nil {
			return errors.Wrap(err, "unable to scan for running daemons")
		}
		if len(pids) > 0 {
			return FaultDaemonAlreadyRunning(pids[0])
		}
	}

	return nil
}

// useTreeTools prepends the project's tools directory to PATH so test
// cases pick up in-tree clients instead of installed ones.
func (h *Harness) useTreeTools() {
	toolsDir := filepath.Join(h.cfg.ProjectDir, "tools")
	if _, err := os.Stat(filepath.Join(toolsDir, "udisksctl")); err != nil {
		return
	}

	if err := os.Setenv("PATH", toolsDir+":"+os.Getenv("PATH")); err != nil {
		h.log.Errorf("unable to prepend %s to PATH: %s", toolsDir, err)
		return
	}
	h.log.Debugf("using in-tree tools from %s", toolsDir)
}

func (h *Harness) provisionDevices(cleanup *cleanupStack) ([]string, error) {
	var devices []string
	// Pushed before setup so a half-applied target configuration is
	// still removed when provisioning aborts.
	cleanup.push("scratch device teardown", func() error {
		return h.devices.Clear(devices)
	})

	resp, err := h.devices.Setup(vdev.SetupRequest{ConfigPath: h.cfg.TargetConfig})
	if err != nil {
		return nil, err
	}
	devices = resp.Devices
	h.state = StateDevicesProvisioned

	return devices, nil
}

func (h *Harness) installConfigs(cleanup *cleanupStack) error {
	scratchDir, err := os.MkdirTemp("", scratchPrefix)
	if err != nil {
		return errors.Wrap(err, "unable to create scratch directory")
	}
	cleanup.push("scratch directory removal", func() error {
		return os.RemoveAll(scratchDir)
	})

	manifest, err := h.buildManifest(h.cfg.ProjectDir)
	if err != nil {
		return err
	}

	// The restore list is valid no matter how far installation got, so
	// it goes on the stack before the error check.
	restore, err := h.installer.Install(manifest, scratchDir)
	cleanup.push("configuration restore", func() error {
		return h.installer.Restore(restore, scratchDir)
	})
	if err != nil {
		return err
	}

	if err := h.shaker.Shake(); err != nil {
		return err
	}
	cleanup.push("device manager reload", func() error {
		return h.shaker.Shake()
	})
	h.state = StateConfigsInstalled

	return nil
}

func (h *Harness) startDaemon(ctx context.Context, cancel context.CancelFunc, cleanup *cleanupStack) (<-chan error, error) {
	binPath, err := h.findDaemon(h.cfg.ProjectDir, h.cfg.SystemDaemon)
	if err != nil {
		return nil, err
	}

	dc := udisksd.NewConfig().WithBinPath(binPath)
	if h.cfg.DaemonLogFile != "" {
		logFile, err := common.TruncFile(h.cfg.DaemonLogFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open daemon log file")
		}
		cleanup.push("daemon log close", func() error {
			return logFile.Close()
		})
		dc = dc.WithLogWriter(logFile)
	}

	runner := h.newRunner(dc)
	errChan := make(chan error, 1)
	if err := runner.Start(ctx, errChan); err != nil {
		return nil, err
	}
	cleanup.push("daemon shutdown", func() error {
		return h.stopDaemon(cancel, runner, errChan)
	})

	return errChan, nil
}

// stopDaemon asks the daemon to exit and escalates through the run
// context when it does not.
func (h *Harness) stopDaemon(cancel context.CancelFunc, runner daemonRunner, exited <-chan error) error {
	if !runner.IsRunning() {
		return nil
	}

	if err := runner.Signal(unix.SIGTERM); err != nil {
		return err
	}
	select {
	case err := <-exited:
		h.log.Debugf("daemon stopped: %s", err)
		return nil
	case <-time.After(h.stopTimeout):
	}

	h.log.Errorf("daemon ignored SIGTERM for %s, killing it", h.stopTimeout)
	cancel()
	select {
	case err := <-exited:
		h.log.Debugf("daemon killed: %s", err)
		return nil
	case <-time.After(h.stopTimeout):
		return errors.New("daemon did not exit after kill")
	}
}

// Run drives one complete harness run. The returned error covers
// aborted or incompletely torn down runs; test case failures are
// reported through the Result only.
func (h *Harness) Run(ctx context.Context) (*dbustest.Result, error) {
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkHost(); err != nil {
		return nil, err
	}

	// Resolve the selection up front: a typo in a test name must not
	// cost a provisioning round trip.
	selected, err := dbustest.Select(h.registry, h.cfg.Tests)
	if err != nil {
		return nil, err
	}
	h.cfg.SaveActiveConfig(h.log)

	h.state = StateInit
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanup := &cleanupStack{}
	res, runErr := h.runStages(ctx, cancel, cleanup, start, selected)
	teardownErr := cleanup.run(h.log)
	h.state = StateTornDown

	if runErr != nil {
		return nil, runErr
	}
	if teardownErr != nil {
		return res, errors.WithMessage(teardownErr, "teardown incomplete")
	}

	return res, nil
}

func (h *Harness) runStages(ctx context.Context, cancel context.CancelFunc, cleanup *cleanupStack, start time.Time, selected []dbustest.Suite) (*dbustest.Result, error) {
	if cfgDump, err := common.StructsToString(h.cfg); err == nil {
		h.log.Debugf("effective config:\n%s", cfgDump)
	}

	distro := system.GetDistribution()
	h.log.Infof("host: %s", distro)

	// Pushed first so the journal is captured after every other
	// teardown step and covers all of them.
	cleanup.push("journal dump", func() error {
		h.journal.Dump(start, h.cfg.JournalDump)
		return nil
	})

	devices, err := h.provisionDevices(cleanup)
	if err != nil {
		return nil, err
	}

	var exited <-chan error
	if h.cfg.SystemDaemon {
		h.log.Info("not spawning a daemon: testing the system installed instance")
	} else {
		h.useTreeTools()
		if err := h.installConfigs(cleanup); err != nil {
			return nil, err
		}
		if exited, err = h.startDaemon(ctx, cancel, cleanup); err != nil {
			return nil, err
		}
	}

	bus, err := h.connectBus()
	if err != nil {
		return nil, err
	}
	cleanup.push("bus disconnect", func() error {
		return bus.Close()
	})

	if h.cfg.SystemDaemon {
		// The system daemon is bus activated; nudge it so the
		// readiness poll has something to observe.
		if err := bus.StartService(build.BusName); err != nil {
			h.log.Debugf("unable to activate %s: %s", build.BusName, err)
		}
	}
	if err := udisksd.AwaitReady(ctx, h.log, bus, exited, h.cfg.ReadyTimeout.Duration()); err != nil {
		return nil, err
	}
	h.state = StateDaemonRunning

	env := &dbustest.Env{
		Log:        h.log,
		Bus:        bus,
		Devices:    devices,
		Distro:     distro,
		ProjectDir: h.cfg.ProjectDir,
		Recorder:   dbustest.NewRecorder(h.cfg.FlightRecord),
	}

	res, err := h.suites.Run(ctx, env, selected)
	if err != nil {
		return nil, err
	}
	h.state = StateTestsExecuted

	return res, nil
}
