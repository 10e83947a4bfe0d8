//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package main

import (
	"strings"

	"github.com/storaged-project/udisks/src/tests/harness/common/cmdutil"
	"github.com/storaged-project/udisks/src/tests/harness/lib/txtfmt"
)

// listTestsCmd prints the registered suites and their cases. The names
// shown are the ones the run command accepts as filters.
type listTestsCmd struct {
	cmdutil.LogCmd
	cmdutil.NoArgsCmd
}

func (cmd *listTestsCmd) Execute(_ []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	table := txtfmt.NewTableFormatter("Suite", "Cases")
	var rows []txtfmt.TableRow
	for _, suite := range reg.Suites() {
		names := make([]string, 0, len(suite.Cases))
		for _, c := range suite.Cases {
			names = append(names, c.Name)
		}
		rows = append(rows, txtfmt.TableRow{
			"Suite": suite.Name,
			"Cases": strings.Join(names, ", "),
		})
	}

	cmd.Info(table.Format(rows))
	return nil
}
