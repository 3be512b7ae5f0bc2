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

package bakery

import (
	"os"

	"github.com/golang/glog"
	"github.com/kr/pretty"

	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/lang"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/recipe/resolve"
	"github.com/kingofpayne/bakery/srcfile"
)

func (c Config) includeDirs() []string { return c.IncludeDirs }

// recipeLoader performs the inclusion-merge pass: it reads a recipe file,
// parses it, recursively loads and merges its includes, and records every
// file it touched so freshness checks can consult the full include graph.
// A set of canonicalized paths guards against re-inclusion and cycles.
type recipeLoader struct {
	tree   *recipe.Tree
	dirs   []string
	log    *diag.Log
	loaded map[string]bool
	files  []string
}

// load parses the recipe at path into scope, merging each include's type
// and namespace children underneath it. Returns false once an error has
// been logged for this file or any of its includes.
func (l *recipeLoader) load(path string, scope recipe.NodeID) bool {
	canonical, err := srcfile.Canonical(path)
	if err != nil {
		l.log.Errorf(diag.IoErr, path, 0, "%v", err)
		return false
	}
	if l.loaded[canonical] {
		return true
	}
	l.loaded[canonical] = true
	l.files = append(l.files, canonical)

	src, err := os.ReadFile(path)
	if err != nil {
		l.log.Errorf(diag.IoErr, path, 0, "%v", err)
		return false
	}
	if lang.IsDataSource(src) {
		l.log.Errorf(diag.IncludeErr, path, 0, "%s is a data file, not a recipe", path)
		return false
	}

	includes, perr := lang.ParseRecipeInto(src, path, l.tree, scope)
	if perr != nil {
		addParseErr(l.log, path, perr)
		return false
	}

	ok := true
	for _, ind := range includes {
		target, rerr := srcfile.Resolve(ind, path, l.dirs)
		if rerr != nil {
			l.log.Errorf(diag.IncludeErr, path, 0, "%v", rerr)
			ok = false
			continue
		}
		incScope := l.tree.New(recipe.KindStructure, "", 0)
		if !l.load(target, incScope.ID) {
			ok = false
			continue
		}
		resolve.MergeInclude(l.tree, scope, incScope.ID)
	}
	return ok
}

// loadRecipeTree runs the full recipe pipeline for one compile or
// decompile: the include merge via recipeLoader, the native population,
// then resolution (resolve.Resolve). The
// returned tree is fully resolved and immutable from here on.
func loadRecipeTree(path string, dirs []string, log *diag.Log) (*recipe.Tree, bool) {
	tree, _, ok := loadRecipeTreeSources(path, dirs, log)
	return tree, ok
}

func loadRecipeTreeSources(path string, dirs []string, log *diag.Log) (*recipe.Tree, []string, bool) {
	tree := recipe.NewTree()
	loader := &recipeLoader{tree: tree, dirs: dirs, log: log, loaded: map[string]bool{}}
	if !loader.load(path, tree.Root) {
		return nil, loader.files, false
	}
	tree.PopulateNatives(tree.Root)
	if !resolve.Resolve(tree, tree.Root, log, path) {
		return nil, loader.files, false
	}
	return tree, loader.files, true
}

// dumpTree pretty-prints the resolved recipe when Config.Verbose is set,
// through glog so the output lands with the rest of the diagnostics.
func dumpTree(tree *recipe.Tree, path string) {
	glog.Infof("resolved recipe %s:\n%s", path, pretty.Sprint(tree))
}

// Stale reports whether binPath must be rebuilt from datPath: it is stale
// when missing, or older than the data file, the recipe it names, or any
// of that recipe's transitive includes.
func Stale(datPath, binPath string, cfg Config) (bool, error) {
	binInfo, err := os.Stat(binPath)
	if err != nil {
		return true, nil
	}

	sources := []string{datPath}
	recipePath, rok := dataRecipePath(datPath, cfg)
	if rok {
		log := &diag.Log{}
		_, files, _ := loadRecipeTreeSources(recipePath, cfg.includeDirs(), log)
		sources = append(sources, files...)
	}

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return true, err
		}
		if info.ModTime().After(binInfo.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// CompileIfStale rebuilds binPath only when Stale reports it out of date
// with respect to datPath and its recipe graph, so callers get the
// rebuild-when-older cache behavior for free. On a fresh-cache no-op the
// returned log holds a single "up to date" info message and no errors.
func CompileIfStale(datPath, binPath string, cfg Config) *diag.Log {
	stale, err := Stale(datPath, binPath, cfg)
	if err != nil {
		log := &diag.Log{}
		log.Errorf(diag.IoErr, datPath, 0, "%v", err)
		return log
	}
	if !stale {
		log := &diag.Log{}
		log.Infof(binPath, 0, "up to date")
		return log
	}
	return Compile(datPath, binPath, cfg)
}

// dataRecipePath extracts the recipe file a data file names in its header
// and resolves it to a filesystem path, without compiling anything.
func dataRecipePath(datPath string, cfg Config) (string, bool) {
	src, err := os.ReadFile(datPath)
	if err != nil {
		return "", false
	}
	scratch := recipe.NewTree()
	_, parsed, perr := lang.ParseSource(src, datPath, scratch)
	if perr != nil || parsed == nil {
		return "", false
	}
	path, rerr := srcfile.Resolve(parsed.Indication.File, datPath, cfg.includeDirs())
	if rerr != nil {
		return "", false
	}
	return path, true
}
