//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package dbustest

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Registry holds the suites available to a run.
type Registry struct {
	suites map[string]Suite
}

func NewRegistry() *Registry {
	return &Registry{
		suites: make(map[string]Suite),
	}
}

// Register adds a suite to the registry. Suite names must be unique
// and must not contain the dot used as the name separator; case names
// must be unique within their suite.
func (r *Registry) Register(s Suite) error {
	if s.Name == "" {
		return errors.New("suite name must not be empty")
	}
	if strings.Contains(s.Name, ".") {
		return errors.Errorf("suite name %q must not contain a dot", s.Name)
	}
	if _, exists := r.suites[s.Name]; exists {
		return errors.Errorf("duplicate suite name %q", s.Name)
	}

	seen := make(map[string]struct{})
	for _, c := range s.Cases {
		if c.Name == "" || c.Run == nil {
			return errors.Errorf("suite %q contains an incomplete case", s.Name)
		}
		if _, exists := seen[c.Name]; exists {
			return errors.Errorf("suite %q contains duplicate case %q", s.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	r.suites[s.Name] = s
	return nil
}

// Suites returns all registered suites sorted by name.
func (r *Registry) Suites() []Suite {
	out := make([]Suite, 0, len(r.suites))
	for _, s := range r.suites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Select resolves dotted name filters ("Suite" or "Suite.Case")
// against the registry. With no filters every registered suite is
// selected. A filter that does not match anything fails the selection
// up front rather than silently running a subset.
func Select(reg *Registry, filters []string) ([]Suite, error) {
	type selection struct {
		all   bool
		cases map[string]struct{}
	}
	selected := make(map[string]*selection)

	for _, filter := range filters {
		suiteName, caseName, hasCase := strings.Cut(filter, ".")

		suite, found := reg.suites[suiteName]
		if !found {
			return nil, FaultUnknownTest(filter)
		}

		sel, found := selected[suiteName]
		if !found {
			sel = &selection{cases: make(map[string]struct{})}
			selected[suiteName] = sel
		}

		if !hasCase {
			sel.all = true
			continue
		}

		caseFound := false
		for _, c := range suite.Cases {
			if c.Name == caseName {
				caseFound = true
				break
			}
		}
		if !caseFound {
			return nil, FaultUnknownTest(filter)
		}
		sel.cases[caseName] = struct{}{}
	}

	var out []Suite
	numCases := 0
	for _, suite := range reg.Suites() {
		if len(filters) == 0 {
			out = append(out, suite)
			numCases += len(suite.Cases)
			continue
		}

		sel, found := selected[suite.Name]
		if !found {
			continue
		}
		if sel.all {
			out = append(out, suite)
			numCases += len(suite.Cases)
			continue
		}

		picked := Suite{Name: suite.Name}
		for _, c := range suite.Cases {
			if _, found := sel.cases[c.Name]; found {
				picked.Cases = append(picked.Cases, c)
			}
		}
		out = append(out, picked)
		numCases += len(picked.Cases)
	}

	if numCases == 0 {
		return nil, FaultNoneMatched
	}

	return out, nil
}
