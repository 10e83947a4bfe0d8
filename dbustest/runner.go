//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package dbustest

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/lib/txtfmt"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
)

// Failure identifies one failed case and its first recorded problem.
type Failure struct {
	Name   string
	Detail string
}

// Result summarizes an executed run.
type Result struct {
	Ran      int
	Failed   int
	Skipped  int
	Duration time.Duration
	Failures []Failure
}

// WasSuccessful indicates whether the run passed. Skipped cases do
// not fail a run.
func (r *Result) WasSuccessful() bool {
	return r.Failed == 0
}

// Runner executes suites and reports progress in the style of a
// verbose test run.
type Runner struct {
	log logging.Logger
}

func NewRunner(log logging.Logger) *Runner {
	return &Runner{
		log: log,
	}
}

func runCase(t *T, c Case) {
	defer func() {
		switch rec := recover(); rec {
		case nil, failNowPanic, skipNowPanic:
		default:
			t.Errorf("panic: %v\n%s", rec, debug.Stack())
		}
	}()

	c.Run(t)
}

// Run executes the given suites in order against env. The flight
// record is reset before the first case runs. The returned error
// covers aborted runs only; case failures are reported through the
// Result.
func (r *Runner) Run(ctx context.Context, env *Env, suites []Suite) (*Result, error) {
	if env.Recorder != nil {
		if err := env.Recorder.Reset(); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	start := time.Now()

	for _, suite := range suites {
		for _, c := range suite.Cases {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "test run aborted")
			default:
			}

			fullName := suite.Name + "." + c.Name
			t := newT(env, fullName)

			caseStart := time.Now()
			runCase(t, c)
			caseDur := time.Since(caseStart).Round(time.Millisecond)

			res.Ran++
			switch {
			// a case that fails and then skips still failed
			case t.failed:
				res.Failed++
				detail := "case aborted"
				if len(t.failures) > 0 {
					detail = t.failures[0]
				}
				res.Failures = append(res.Failures, Failure{
					Name:   fullName,
					Detail: detail,
				})
				r.log.Errorf("%s ... FAIL (%s)", fullName, caseDur)
				for _, failure := range t.failures {
					r.log.Errorf("    %s", failure)
				}
			case t.skipped:
				res.Skipped++
				r.log.Infof("%s ... skipped %q (%s)", fullName, t.skipMsg, caseDur)
			default:
				r.log.Infof("%s ... ok (%s)", fullName, caseDur)
			}
		}
	}

	res.Duration = time.Since(start)
	r.logSummary(res)

	return res, nil
}

func (r *Runner) logSummary(res *Result) {
	r.log.Info(strings.Repeat("-", 70))
	r.log.Infof("Ran %d %s in %s", res.Ran, common.Pluralise("test", res.Ran),
		res.Duration.Round(time.Millisecond))

	if res.WasSuccessful() {
		if res.Skipped > 0 {
			r.log.Infof("OK (skipped=%d)", res.Skipped)
		} else {
			r.log.Info("OK")
		}
		return
	}

	r.log.Errorf("FAILED (failures=%d, skipped=%d)", res.Failed, res.Skipped)

	table := txtfmt.NewTableFormatter("Failed Case", "Error")
	rows := make([]txtfmt.TableRow, 0, len(res.Failures))
	for _, failure := range res.Failures {
		detail := failure.Detail
		if i := strings.IndexByte(detail, '\n'); i >= 0 {
			detail = detail[:i]
		}
		rows = append(rows, txtfmt.TableRow{
			"Failed Case": failure.Name,
			"Error":       detail,
		})
	}
	r.log.Error(table.Format(rows))
}
