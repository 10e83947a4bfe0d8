//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package dbustest

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
)

// DefaultRecordFile is where case diagnostics are collected, relative
// to the working directory of the run.
const DefaultRecordFile = "flight_record.log"

// Recorder appends timestamped diagnostics about an executing run to
// the flight record file. The record survives the run and is the
// first place to look when a case fails in CI.
type Recorder struct {
	sync.Mutex
	path  string
	runID string
}

func NewRecorder(path string) *Recorder {
	return &Recorder{
		path:  path,
		runID: uuid.New().String(),
	}
}

// RunID identifies this run in the record header and harness logs.
func (r *Recorder) RunID() string {
	return r.runID
}

// Path returns the location of the record file.
func (r *Recorder) Path() string {
	return r.path
}

// Reset truncates the record file and writes the run header. Leftovers
// from earlier runs must never end up in the current record.
func (r *Recorder) Reset() error {
	r.Lock()
	defer r.Unlock()

	f, err := common.TruncFile(r.path)
	if err != nil {
		return errors.Wrap(err, "unable to reset flight record")
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "===== run %s started at %s =====\n",
		r.runID, common.FormatTime(time.Now()))
	return errors.Wrap(err, "unable to write flight record header")
}

// Append adds one timestamped entry attributed to name.
func (r *Recorder) Append(name, format string, args ...interface{}) error {
	r.Lock()
	defer r.Unlock()

	f, err := common.AppendFile(r.path)
	if err != nil {
		return errors.Wrap(err, "unable to append to flight record")
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s %s: %s\n",
		common.FormatTime(time.Now()), name, fmt.Sprintf(format, args...))
	return errors.Wrap(err, "unable to write flight record entry")
}
