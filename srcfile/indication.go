// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package srcfile resolves the `"name"` / `<name>` file indications used
// by recipe includes and data-file recipe references.
package srcfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Indication is `{path, absolute?}`: a relative indication ("name") is
// resolved against the directory of the current source file; an absolute
// one (<name>) is searched through the include-directory list in order.
type Indication struct {
	Path     string
	Absolute bool
}

// String renders the indication the way the parser/decompiler print it
//: `"name"` or `<name>`.
func (i Indication) String() string {
	if i.Absolute {
		return fmt.Sprintf("<%s>", i.Path)
	}
	return fmt.Sprintf("%q", i.Path)
}

// Resolve locates the real filesystem path for an indication seen while
// parsing currentFile, searching includeDirs for absolute indications
//. An OS-absolute path is returned unchanged, unresolved
// against either the current directory or the include list.
func Resolve(ind Indication, currentFile string, includeDirs []string) (string, error) {
	if filepath.IsAbs(ind.Path) {
		if _, err := os.Stat(ind.Path); err != nil {
			return "", fmt.Errorf("file %s not found", ind.Path)
		}
		return ind.Path, nil
	}

	if !ind.Absolute {
		dir := filepath.Dir(currentFile)
		candidate := filepath.Join(dir, ind.Path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("file %q not found relative to %s", ind.Path, dir)
	}

	for _, dir := range includeDirs {
		candidate := filepath.Join(dir, ind.Path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("file <%s> not found in any include directory", ind.Path)
}

// Canonical returns an absolute, cleaned form of path suitable for use as a
// dedup key in the include-cycle guard.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
