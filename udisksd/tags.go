//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package udisksd

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	longFlagTag = "cmdLongFlag"
	envTag      = "cmdEnv"

	nonZero = "nonzero"
)

type (
	tagOpts map[string]struct{}
	joinFn  func(args []string) []string
)

func joinLongArgs(args []string) []string {
	switch len(args) {
	case 2:
		return []string{args[0] + "=" + args[1]}
	case 1:
		return []string{args[0]}
	default:
		return nil
	}
}

func joinEnvVars(args []string) []string {
	switch len(args) {
	case 2:
		return joinLongArgs(args)
	case 1:
		return []string{args[0] + "=true"}
	default:
		return nil
	}
}

func (opts tagOpts) hasOpt(name string) bool {
	_, found := opts[name]
	return found
}

func parseTag(in string) (tag string, opts tagOpts) {
	optList := strings.Split(in, ",")
	tag = optList[0]

	opts = make(tagOpts)
	for _, opt := range optList {
		opts[opt] = struct{}{}
	}

	return
}

// parseCmdTags walks a config struct and builds an argument or
// environment list from the fields carrying the filtered tag.
func parseCmdTags(in interface{}, tagFilter string, joiner joinFn) (out []string, err error) {
	if joiner == nil {
		return nil, errors.New("nil joinFn")
	}

	inVal := reflect.ValueOf(in)
	if inVal.Kind() == reflect.Ptr {
		if inVal.IsNil() {
			return
		}
		inVal = reflect.Indirect(inVal)
	}

	if inVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < inVal.NumField(); i++ {
		f := inVal.Type().Field(i)
		fVal := inVal.Field(i)

		if tagVal, ok := f.Tag.Lookup(tagFilter); ok {
			tag, opts := parseTag(tagVal)

			switch f.Type.Kind() {
			case reflect.String:
				if fVal.String() != "" {
					out = append(out, joiner([]string{tag, fVal.String()})...)
				}
			case reflect.Bool:
				if fVal.Bool() {
					out = append(out, joiner([]string{tag})...)
				}
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				if fVal.Int() == 0 && opts.hasOpt(nonZero) {
					continue
				}
				strVal := strconv.FormatInt(fVal.Int(), 10)
				out = append(out, joiner([]string{tag, strVal})...)
			default:
				return nil, fmt.Errorf("unhandled tag type %s", f.Type.Kind())
			}

			continue
		}

		if fVal.CanInterface() {
			nested, err := parseCmdTags(fVal.Interface(), tagFilter, joiner)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}

	return
}
