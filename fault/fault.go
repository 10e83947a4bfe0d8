//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

// Package fault provides a framework for well-known errors with stable
// codes and operator-actionable resolutions.
package fault

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/storaged-project/udisks/src/tests/harness/fault/code"
)

const (
	// ResolutionUnknown is used when there is no known
	// resolution for the fault.
	ResolutionUnknown = "no known resolution"

	unknownDomain = "unknown"
)

// UnknownFault represents an unknown fault.
var UnknownFault = &Fault{Code: code.Unknown}

// Fault represents a well-known failure scenario with a stable
// code, a description, and an optional suggested resolution.
type Fault struct {
	Domain      string    `json:"domain"`
	Code        code.Code `json:"code"`
	Description string    `json:"description"`
	Reason      string    `json:"reason,omitempty"`
	Resolution  string    `json:"resolution,omitempty"`
}

func (f *Fault) Error() string {
	if f == nil {
		return UnknownFault.Error()
	}
	return fmt.Sprintf("%s: code = %d description = %q",
		f.sanitizedDomain(), f.Code, f.Description)
}

// Equals compares the given error to this fault. Two faults are
// considered equal if they have the same code and description.
func (f *Fault) Equals(raw error) bool {
	if f == nil {
		return raw == nil
	}
	other, ok := errors.Cause(raw).(*Fault)
	if !ok || other == nil {
		return false
	}
	return f.Code == other.Code && f.Description == other.Description
}

func (f *Fault) sanitizedDomain() string {
	domain := f.Domain
	if domain == "" {
		domain = unknownDomain
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':':
			return '_'
		}
		return r
	}, domain)
}

// IsFault indicates whether the error is a Fault.
func IsFault(raw error) bool {
	_, ok := errors.Cause(raw).(*Fault)
	return ok
}

// HasResolution indicates whether the error has a resolution defined.
func HasResolution(raw error) bool {
	f, ok := errors.Cause(raw).(*Fault)
	if !ok || f == nil || f.Resolution == "" || f.Resolution == ResolutionUnknown {
		return false
	}
	return true
}

// ShowResolutionFor returns a string describing the resolution
// for the given error.
func ShowResolutionFor(raw error) string {
	f, ok := errors.Cause(raw).(*Fault)
	if !ok || f == nil {
		f = UnknownFault
	}
	resolution := f.Resolution
	if resolution == "" {
		resolution = ResolutionUnknown
	}
	return fmt.Sprintf("%s: code = %d resolution = %q",
		f.sanitizedDomain(), f.Code, resolution)
}
