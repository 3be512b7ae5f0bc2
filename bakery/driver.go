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

// Package bakery is the driver: it owns the
// file I/O the lower packages intentionally stay free of, wiring lang,
// recipe/resolve, emit, and decompile into the two end-to-end operations a
// caller actually wants, Compile and Decompile.
package bakery

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/decompile"
	"github.com/kingofpayne/bakery/diag"
	"github.com/kingofpayne/bakery/emit"
	"github.com/kingofpayne/bakery/lang"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/recipe/resolve"
	"github.com/kingofpayne/bakery/srcfile"
)

// Config carries the options every driver entry point accepts: where to search for `<...>` includes, an abort-on-error
// switch (set from cmd/bakeryc's flag, but read neither by the driver nor
// by cmd/bakeryc, so diagnostics are always collected in full),
// and whether to dump the resolved recipe tree for debugging.
type Config struct {
	IncludeDirs  []string
	AbortOnError bool
	Verbose      bool
}

// Compile runs the full pipeline for a single data file:
// load and Pass-A/Pass-B resolve the recipe it names, parse the data file
// against that recipe, emit it to binPath, and delete any partial output
// left behind by a failed write.
func Compile(datPath, binPath string, cfg Config) *diag.Log {
	log := &diag.Log{}

	headerSrc, err := os.ReadFile(datPath)
	if err != nil {
		log.Errorf(diag.IoErr, datPath, 0, "%v", err)
		return log
	}

	// The data grammar's header type-inst (if any) is parsed against the
	// recipe's own tree (so a trailing `[...]` synthesizes its array node
	// there, resolvable in the same arena) — but which recipe to load is
	// itself named inside that header. A throwaway first pass recovers
	// just the recipe indication; the real parse happens once the named
	// recipe's tree exists, below.
	scratch := recipe.NewTree()
	_, firstPass, perr := lang.ParseSource(headerSrc, datPath, scratch)
	if perr != nil {
		addParseErr(log, datPath, perr)
		return log
	}
	if firstPass == nil {
		log.Errorf(diag.ParseErr, datPath, 0, "expected a data file, got a recipe file")
		return log
	}

	recipePath, rerr := srcfile.Resolve(firstPass.Indication.File, datPath, cfg.includeDirs())
	if rerr != nil {
		log.Errorf(diag.IncludeErr, datPath, 0, "%v", rerr)
		return log
	}

	tree, ok := loadRecipeTree(recipePath, cfg.includeDirs(), log)
	if !ok {
		return log
	}
	if cfg.Verbose {
		dumpTree(tree, recipePath)
	}

	_, parsed, perr := lang.ParseSource(headerSrc, datPath, tree)
	if perr != nil {
		addParseErr(log, datPath, perr)
		return log
	}

	inst := rootInstantiation(tree)
	if parsed.Indication.Type != nil {
		inst = parsed.Indication.Type
		if !resolve.ResolveInstantiation(tree, inst, tree.Root, log, datPath) {
			return log
		}
	}

	f, ferr := os.Create(binPath)
	if ferr != nil {
		log.Errorf(diag.IoErr, binPath, 0, "%v", ferr)
		return log
	}

	em := emit.New(tree, f, log, datPath)
	em.Write(inst, parsed.Root)
	f.Close()

	if log.HasErrors() {
		if rmErr := os.Remove(binPath); rmErr != nil {
			glog.Warningf("removing partial output %s: %v", binPath, rmErr)
		}
	}
	return log
}

// Decompile is Compile's inverse: load and resolve the recipe named by
// recipeText, resolve
// typeText against it (or the whole recipe root, if typeText is empty),
// read binPath and decode it, and write the canonical data text to datPath.
func Decompile(binPath, recipeText, typeText, datPath string, cfg Config) *diag.Log {
	log := &diag.Log{}

	ind, ierr := lang.ParseFileIndicationText(recipeText)
	if ierr != nil {
		log.Errorf(diag.ParseErr, recipeText, 0, "%v", ierr)
		return log
	}
	recipePath, rerr := srcfile.Resolve(ind, datPath, cfg.includeDirs())
	if rerr != nil {
		log.Errorf(diag.IncludeErr, recipeText, 0, "%v", rerr)
		return log
	}

	tree, ok := loadRecipeTree(recipePath, cfg.includeDirs(), log)
	if !ok {
		return log
	}
	if cfg.Verbose {
		dumpTree(tree, recipePath)
	}

	inst := rootInstantiation(tree)
	if typeText != "" {
		t, terr := lang.ParseTypeInstText(typeText, tree, tree.Root)
		if terr != nil {
			addParseErr(log, typeText, terr)
			return log
		}
		inst = t
		if !resolve.ResolveInstantiation(tree, inst, tree.Root, log, recipePath) {
			return log
		}
	}

	bin, berr := os.ReadFile(binPath)
	if berr != nil {
		log.Errorf(diag.IoErr, binPath, 0, "%v", berr)
		return log
	}

	dc := decompile.New(tree, log, binPath)
	root, dok := dc.Decompile(inst, decompile.NewCursor(bin))
	if !dok {
		return log
	}

	body := decompile.PrintBody(wrapAsBody(inst, root))
	out := fmt.Sprintf("recipe %s;\n\n%s", ind, body)
	if werr := os.WriteFile(datPath, []byte(out), 0644); werr != nil {
		log.Errorf(diag.IoErr, datPath, 0, "%v", werr)
	}
	return log
}

// rootInstantiation builds the (already-resolved) reference to tree's own
// root structure, used when a data file or decompile call names no
// explicit type: in that case the whole recipe root is meant.
func rootInstantiation(tree *recipe.Tree) *recipe.TypeInstantiation {
	return &recipe.TypeInstantiation{TypePointer: tree.Root}
}

// wrapAsBody re-presents a decompiled top-level structure as the flat
// Assignment list PrintBody expects: when inst targets the recipe root
// (a structure, always), root already has that shape, since
// decompile.readStructureInto builds it directly.
func wrapAsBody(inst *recipe.TypeInstantiation, root *data.Node) *data.Node {
	return root
}

func addParseErr(log *diag.Log, file string, err error) {
	if pe, ok := err.(*lang.ParseError); ok {
		log.Errorf(diag.ParseErr, file, pe.Line, "%s", pe.Excerpt)
		return
	}
	log.Errorf(diag.ParseErr, file, 0, "%v", err)
}
