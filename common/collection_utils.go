//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Includes returns true if string target in slice.
func Includes(ss []string, target string) bool {
	return Index(ss, target) >= 0
}

// Index returns first index of target string,
// -1 if no match
func Index(ss []string, target string) int {
	for i, s := range ss {
		if s == target {
			return i
		}
	}
	return -1
}

// Filter returns new slice with only strings that return true from f.
func Filter(ss []string, f func(string) bool) (nss []string) {
	for _, s := range ss {
		if f(s) {
			nss = append(nss, s)
		}
	}
	return
}

// Pluralise appends "s" to input string unless n==1.
func Pluralise(s string, n int) string {
	if n == 1 {
		return s
	}
	return s + "s"
}

// ConcatErrors builds single error from error slice.
func ConcatErrors(errs []error, err error) error {
	if err != nil {
		errs = append(errs, err)
	}

	errStr := "error(s):\n"
	for _, err := range errs {
		errStr += fmt.Sprintf("  %s\n", err.Error())
	}

	return errors.New(errStr)
}

// DedupeStringSlice is responsible for returning a slice based on
// the input with any duplicates removed.
func DedupeStringSlice(in []string) []string {
	keys := make(map[string]struct{})

	for _, el := range in {
		keys[el] = struct{}{}
	}

	out := make([]string, 0, len(keys))
	for key := range keys {
		out = append(out, key)
	}

	return out
}
