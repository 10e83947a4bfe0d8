//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package common

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// GetFilePaths return full file paths in given directory with
// matching file extensions
func GetFilePaths(dir string, ext string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	extension := ext
	// if extension has been provided without '.' prefix, add one
	if filepath.Ext(ext) == "" {
		extension = fmt.Sprintf(".%s", ext)
	}
	var matchingFiles []string
	for _, file := range files {
		if filepath.Ext(file.Name()) == extension {
			matchingFiles = append(
				matchingFiles,
				fmt.Sprintf("%s/%s", dir, file.Name()))
		}
	}
	return matchingFiles, nil
}

// TruncFile overrides existing or creates new file with default options
func TruncFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
}

// AppendFile appends to existing or creates new file with default options
func AppendFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0664)
}

// StructsToString returns yaml representation (as a list of strings)
// of any interface.
func StructsToString(i interface{}) (string, error) {
	s, err := yaml.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// WriteFileAtomic mimics ioutil.WriteFile, but it makes sure the file is
// either successfully written persistently or untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	// Write a staging file.
	staging := path + ".staging"
	if err := writeFile(staging, data, perm); err != nil {
		return errors.WithStack(err)
	}

	// Rename the staging file to the destination.
	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)
		return errors.WithStack(err)
	}

	// Sync the rename.
	return SyncDir(filepath.Dir(path))
}

// writeFile mimics ioutil.WriteFile, but syncs the file before returning. The
// error is one from the standard library.
func writeFile(path string, data []byte, perm os.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return
	}
	defer func() {
		if tmperr := f.Close(); tmperr != nil && err == nil {
			err = tmperr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return
	} else if n < len(data) {
		return fmt.Errorf("write %s: only wrote %d/%d", path, n, len(data))
	}

	return f.Sync()
}

// SyncDir flushes all prior modifications to a directory. This is required if
// one modifies a directory (e.g., by creating a new file in it) and needs to
// wait for this modification to become persistent.
func SyncDir(path string) (err error) {
	defer func() { err = errors.WithStack(err) }()

	// Since a directory can't be opened for writing, os.Open suffices.
	d, err := os.Open(path)
	if err != nil {
		return
	}
	defer func() {
		if tmperr := d.Close(); tmperr != nil && err == nil {
			err = tmperr
		}
	}()

	return d.Sync()
}

// GetWorkingPath retrieves path relative to the current working directory when
// invoking the current process.
func GetWorkingPath(inPath string) (string, error) {
	if path.IsAbs(inPath) {
		return "", errors.New("unexpected absolute path, want relative")
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "unable to determine working directory")
	}

	return path.Join(workingDir, inPath), nil
}

// GetAdjacentPath retrieves path relative to the binary used to launch the
// currently running process.
func GetAdjacentPath(inPath string) (string, error) {
	if path.IsAbs(inPath) {
		return "", errors.New("unexpected absolute path, want relative")
	}

	selfPath, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return "", errors.Wrap(err, "unable to determine path to self")
	}

	return path.Join(path.Dir(selfPath), inPath), nil
}

// ResolvePath simply returns an absolute path, appends input path to current
// working directory if input path not empty otherwise appends default path to
// location of running binary (adjacent). Use case is specific to config files.
func ResolvePath(inPath string, defaultPath string) (outPath string, err error) {
	switch {
	case inPath == "":
		// no custom path specified, look up adjacent
		outPath, err = GetAdjacentPath(defaultPath)
	case filepath.IsAbs(inPath):
		outPath = inPath
	default:
		// custom path specified, look up relative to cwd
		outPath, err = GetWorkingPath(inPath)
	}

	if err != nil {
		return "", err
	}

	return outPath, nil
}

// CpFile copies a file from src to dst.
func CpFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	if err != nil {
		return err
	}

	return nil
}

// MoveFile renames src to dst, falling back to copy-and-remove when the
// two live on different filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CpFile(src, dst); err != nil {
		return err
	}

	return os.Remove(src)
}

// Normalize the input path with removing redundant separators, up-level reference, changing relative
// path to absolute one, etc.
func NormalizePath(p string) (np string, err error) {
	np, err = filepath.EvalSymlinks(p)
	if err != nil {
		return
	}

	if !filepath.IsAbs(np) {
		np, err = filepath.Abs(np)
		if err != nil {
			return
		}
	}

	return
}
