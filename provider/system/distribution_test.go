//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package system

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSystem_getDistribution(t *testing.T) {
	for name, tc := range map[string]struct {
		fileMap map[string]string
		expDist Distribution
	}{
		"centos-7.9": {
			fileMap: map[string]string{
				"/etc/os-release":     "distros/centos7.9-os-rel",
				"/etc/centos-release": "distros/centos7.9-rel",
				"/proc/version":       "distros/centos7.9-proc-ver",
			},
			expDist: Distribution{
				ID:   "centos",
				Name: "CentOS Linux",
				Version: DistributionVersion{
					Major: 7,
					Minor: 9,
					Patch: 2009,
				},
				Kernel: KernelVersion{
					Major: 3,
					Minor: 10,
				},
			},
		},
		"centos-stream-9": {
			fileMap: map[string]string{
				"/etc/os-release":     "distros/centos9-os-rel",
				"/etc/centos-release": "distros/centos9-rel",
				"/proc/version":       "distros/centos9-proc-ver",
			},
			expDist: Distribution{
				ID:   "centos",
				Name: "CentOS Stream",
				Version: DistributionVersion{
					Major: 9,
				},
				Kernel: KernelVersion{
					Major: 5,
					Minor: 14,
				},
			},
		},
		"fedora-40": {
			fileMap: map[string]string{
				"/etc/os-release": "distros/fedora40-os-rel",
				"/proc/version":   "distros/fedora40-proc-ver",
			},
			expDist: Distribution{
				ID:   "fedora",
				Name: "Fedora Linux",
				Version: DistributionVersion{
					Major: 40,
				},
				Kernel: KernelVersion{
					Major: 6,
					Minor: 8,
				},
			},
		},
		"debian-12": {
			fileMap: map[string]string{
				"/etc/os-release": "distros/debian12-os-rel",
			},
			expDist: Distribution{
				ID:   "debian",
				Name: "Debian GNU/Linux",
				Version: DistributionVersion{
					Major: 12,
				},
			},
		},
		"ubuntu-22.04": {
			fileMap: map[string]string{
				"/etc/os-release": "distros/ubuntu22.04-os-rel",
			},
			expDist: Distribution{
				ID:   "ubuntu",
				Name: "Ubuntu",
				Version: DistributionVersion{
					Major: 22,
					Minor: 4,
				},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			openFunc := func(name string) (*os.File, error) {
				f, ok := tc.fileMap[name]
				if !ok {
					return nil, os.ErrNotExist
				}

				return os.Open(f)
			}

			gotDist := getDistribution(openFunc)
			if diff := cmp.Diff(tc.expDist, gotDist); diff != "" {
				t.Fatalf("Unexpected distribution (-want +got):\n%s", diff)
			}
		})
	}
}
