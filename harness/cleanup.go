//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package harness

import (
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

type cleanupStep struct {
	name string
	fn   func() error
}

// cleanupStack collects teardown steps as resources are acquired and
// releases them last-in-first-out. Every step runs regardless of
// earlier failures; the failures are reported together afterwards, so
// an abort at any stage still releases everything acquired up to it.
type cleanupStack struct {
	steps []cleanupStep
}

func (cs *cleanupStack) push(name string, fn func() error) {
	cs.steps = append(cs.steps, cleanupStep{name: name, fn: fn})
}

func (cs *cleanupStack) run(log logging.Logger) error {
	errs := make([]error, 0)

	for i := len(cs.steps) - 1; i >= 0; i-- {
		step := cs.steps[i]
		log.Debugf("teardown: %s", step.name)
		if err := step.fn(); err != nil {
			log.Errorf("teardown step %q failed: %s", step.name, err)
			errs = append(errs, errors.WithMessage(err, step.name))
		}
	}
	cs.steps = nil

	if len(errs) > 0 {
		return common.ConcatErrors(errs, nil)
	}

	return nil
}
