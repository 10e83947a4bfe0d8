//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package main

import (
	"fmt"

	"github.com/storaged-project/udisks/src/tests/harness/build"
	"github.com/storaged-project/udisks/src/tests/harness/common/cmdutil"
)

func versionString() string {
	return build.String(build.ToolName)
}

type versionCmd struct {
	cmdutil.NoArgsCmd
}

func (cmd *versionCmd) Execute(_ []string) error {
	_, err := fmt.Println(versionString())
	return err
}
