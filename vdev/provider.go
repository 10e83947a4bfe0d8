//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package vdev provisions the virtual SCSI scratch devices the test
// suites run against, and tears them back down afterwards.
package vdev

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/provider/system"
	"github.com/storaged-project/udisks/src/tests/harness/udev"
)

const (
	cmdTargetcli = "targetcli"

	defaultDevDir      = "/dev"
	defaultSysBlockDir = "/sys/block"
	defaultBackingGlob = "/var/tmp/udisks_test_disk*"

	defaultUnmountFlags = 0

	// ScratchModel is the model reported by our target backstores; the
	// target core truncates "udisks_test_disk" to fit the INQUIRY
	// model field. Anything else showing up during provisioning is
	// treated as a real disk.
	ScratchModel = "udisks_test_dis"

	// sysfs size attributes are always in 512-byte sectors.
	sectorSize = 512
)

// devNameRe matches whole-disk sd nodes (sda, sdb, ..., sdaa), not partitions.
var devNameRe = regexp.MustCompile(`^sd[a-z]+$`)

type runCmdFn func(logging.Logger, []string, string, ...string) (string, error)
type lookPathFn func(string) (string, error)

func run(log logging.Logger, env []string, cmdStr string, args ...string) (string, error) {
	log.Debugf("running command: %s %s", cmdStr, strings.Join(args, " "))
	cmd := exec.Command(cmdStr, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &system.RunCmdError{
			Wrapped: err,
			Stdout:  string(out),
		}
	}

	return string(out), nil
}

type (
	// Settler waits out device manager event storms.
	Settler interface {
		Settle() error
	}

	// SystemProvider provides operating system capabilities.
	SystemProvider interface {
		system.IsMountedProvider
		system.UnmountProvider
	}

	// SetupRequest defines the parameters for a Setup operation.
	SetupRequest struct {
		// ConfigPath locates the targetcli JSON to restore.
		ConfigPath string
	}

	// SetupResponse contains the results of a successful Setup operation.
	SetupResponse struct {
		// Devices holds the scratch device nodes in stable order.
		Devices []string
	}

	// Provisioner brings scratch devices up and down around a harness run.
	Provisioner struct {
		log         logging.Logger
		runCmd      runCmdFn
		lookPath    lookPathFn
		settler     Settler
		sys         SystemProvider
		devDir      string
		sysBlockDir string
		backingGlob string
	}
)

// DefaultProvisioner returns an initialized *Provisioner suitable for
// use with production code.
func DefaultProvisioner(log logging.Logger) *Provisioner {
	return NewProvisioner(log, run, exec.LookPath, udev.DefaultShaker(log), system.DefaultProvider())
}

func NewProvisioner(log logging.Logger, runCmd runCmdFn, lookPath lookPathFn, settler Settler, sys SystemProvider) *Provisioner {
	return &Provisioner{
		log:         log,
		runCmd:      runCmd,
		lookPath:    lookPath,
		settler:     settler,
		sys:         sys,
		devDir:      defaultDevDir,
		sysBlockDir: defaultSysBlockDir,
		backingGlob: defaultBackingGlob,
	}
}

// checkTargetcli verifies the targetcli application is installed.
func (p *Provisioner) checkTargetcli() error {
	if _, err := p.lookPath(cmdTargetcli); err != nil {
		return FaultMissingTargetcli
	}

	return nil
}

func (p *Provisioner) scanDevNames() ([]string, error) {
	entries, err := os.ReadDir(p.devDir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to scan %s", p.devDir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return common.Filter(names, devNameRe.MatchString), nil
}

func (p *Provisioner) readDeviceModel(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.sysBlockDir, name, "device", "model"))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func (p *Provisioner) readDeviceSize(name string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(p.sysBlockDir, name, "size"))
	if err != nil {
		return 0, err
	}

	sectors, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse size of %s", name)
	}

	return sectors * sectorSize, nil
}

// Setup restores the bundled target configuration and returns the device
// nodes that appeared as a result. Every new node must report the scratch
// disk model; anything else aborts the run before a real disk gets touched.
func (p *Provisioner) Setup(req SetupRequest) (*SetupResponse, error) {
	if err := p.checkTargetcli(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(req.ConfigPath); err != nil {
		if os.IsNotExist(err) {
			return nil, FaultConfigNotFound(req.ConfigPath)
		}
		return nil, errors.Wrapf(err, "stat failed on %s", req.ConfigPath)
	}

	before, err := p.scanDevNames()
	if err != nil {
		return nil, err
	}

	out, err := p.runCmd(p.log, nil, cmdTargetcli, "restoreconfig", req.ConfigPath)
	if err != nil {
		return nil, FaultRestoreFailed(err)
	}
	p.log.Debugf("targetcli restoreconfig output:\n%s", out)

	if err := p.settler.Settle(); err != nil {
		return nil, err
	}

	after, err := p.scanDevNames()
	if err != nil {
		return nil, err
	}

	appeared := common.Filter(after, func(name string) bool {
		return !common.Includes(before, name)
	})
	if len(appeared) == 0 {
		return nil, FaultNoDevicesAppeared
	}
	sort.Strings(appeared)

	devices := make([]string, 0, len(appeared))
	for _, name := range appeared {
		model, err := p.readDeviceModel(name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read model of %s", name)
		}
		if model != ScratchModel {
			return nil, FaultForeignDevice(name, model)
		}

		if size, err := p.readDeviceSize(name); err == nil {
			p.log.Debugf("scratch device %s: %s", name, humanize.IBytes(size))
		}

		devices = append(devices, filepath.Join(p.devDir, name))
	}

	p.log.Infof("provisioned %d scratch %s: %s", len(devices),
		common.Pluralise("device", len(devices)), strings.Join(devices, " "))

	return &SetupResponse{Devices: devices}, nil
}

func (p *Provisioner) maybeUnmount(dev string) error {
	isMounted, err := p.sys.IsMounted(dev)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			// node already gone, nothing mounted
			return nil
		}
		return errors.Wrapf(err, "mount check failed on %s", dev)
	}
	if !isMounted {
		return nil
	}

	p.log.Debugf("unmounting leftover filesystem on %s", dev)
	return errors.Wrapf(p.sys.Unmount(dev, defaultUnmountFlags), "unmount %s", dev)
}

// Clear removes the target configuration and the backing files behind the
// scratch devices. Suites can leave filesystems mounted when they fail
// mid-case, so devices are lazily unmounted first. All teardown steps are
// attempted regardless of earlier failures and the errors reported together.
func (p *Provisioner) Clear(devices []string) error {
	errs := make([]error, 0)

	for _, dev := range devices {
		if err := p.maybeUnmount(dev); err != nil {
			errs = append(errs, err)
		}
	}

	if err := p.checkTargetcli(); err != nil {
		errs = append(errs, err)
	} else if out, err := p.runCmd(p.log, nil, cmdTargetcli, "clearconfig", "confirm=True"); err != nil {
		errs = append(errs, FaultClearFailed(err))
	} else {
		p.log.Debugf("targetcli clearconfig output:\n%s", out)
	}

	backing, err := filepath.Glob(p.backingGlob)
	if err != nil {
		errs = append(errs, errors.Wrap(err, "bad backing file pattern"))
	}
	for _, path := range backing {
		p.log.Debugf("removing backing file %s", path)
		if err := os.Remove(path); err != nil {
			errs = append(errs, errors.Wrap(err, "unable to remove backing file"))
		}
	}

	if len(errs) > 0 {
		return common.ConcatErrors(errs, nil)
	}

	return nil
}
