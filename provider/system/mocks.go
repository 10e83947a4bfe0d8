//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package system

import (
	"sync"

	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

type (
	// MountMap tracks mounted state by target path.
	MountMap struct {
		sync.RWMutex
		mounted map[string]bool
	}

	// MockSysConfig alters mock SystemProvider behavior.
	MockSysConfig struct {
		IsMountedBool bool
		IsMountedErr  error
		UnmountErr    error
	}

	// MockSysProvider gives a mock SystemProvider implementation.
	MockSysProvider struct {
		sync.RWMutex
		log             logging.Logger
		cfg             MockSysConfig
		isMounted       MountMap
		IsMountedInputs []string
		UnmountInputs   []string
	}
)

func (mm *MountMap) Set(mount string, isMounted bool) {
	mm.Lock()
	defer mm.Unlock()

	mm.mounted[mount] = isMounted
}

func (mm *MountMap) Get(mount string) (bool, bool) {
	mm.RLock()
	defer mm.RUnlock()

	isMounted, exists := mm.mounted[mount]
	return isMounted, exists
}

func (msp *MockSysProvider) IsMounted(target string) (bool, error) {
	msp.Lock()
	msp.IsMountedInputs = append(msp.IsMountedInputs, target)
	msp.Unlock()

	isMounted, exists := msp.isMounted.Get(target)
	if !exists {
		return msp.cfg.IsMountedBool, msp.cfg.IsMountedErr
	}

	return isMounted, nil
}

func (msp *MockSysProvider) Unmount(target string, _ int) error {
	msp.Lock()
	msp.UnmountInputs = append(msp.UnmountInputs, target)
	msp.Unlock()

	if msp.cfg.UnmountErr == nil {
		msp.isMounted.Set(target, false)
	}
	return msp.cfg.UnmountErr
}

func NewMockSysProvider(log logging.Logger, cfg *MockSysConfig) *MockSysProvider {
	if cfg == nil {
		cfg = &MockSysConfig{}
	}
	msp := &MockSysProvider{
		log: log,
		cfg: *cfg,
		isMounted: MountMap{
			mounted: make(map[string]bool),
		},
	}
	log.Debugf("creating MockSysProvider with cfg: %+v", msp.cfg)
	return msp
}

func DefaultMockSysProvider(log logging.Logger) *MockSysProvider {
	return NewMockSysProvider(log, nil)
}
