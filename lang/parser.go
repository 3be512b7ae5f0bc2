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

package lang

import (
	"fmt"

	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/srcfile"
)

// RecipeIndication is the `recipe <file_indication> [<type_instantiation>];`
// header of a data file.
type RecipeIndication struct {
	File srcfile.Indication
	Type *recipe.TypeInstantiation // nil if the data names the whole root
}

// ParsedRecipe is the result of parsing one recipe source file: its
// includes (not yet merged) and the composite tree rooted at Root.
type ParsedRecipe struct {
	Tree     *recipe.Tree
	Root     recipe.NodeID
	Includes []srcfile.Indication
}

// ParsedData is the result of parsing one data source file.
type ParsedData struct {
	Indication RecipeIndication
	Root       *data.Node // Kind == Group
}

type parser struct {
	lex  *Lexer
	file string
	tree *recipe.Tree
}

// ParseSource parses src (from file, used only for diagnostics) and
// returns either a *ParsedRecipe or a *ParsedData: a data file always
// begins with the `recipe` keyword followed by a file indication, which a
// recipe file never does.
//
// tree receives any recipe nodes synthesized while parsing (an inline
// array type on the data file's recipe-indication type instantiation);
// pass a freshly created *recipe.Tree from
// recipe.NewTree() if the caller has not already built one for this
// compile. When ParseSource returns a *ParsedRecipe, its Root is tree.Root.
func ParseSource(src []byte, file string, tree *recipe.Tree) (recipeResult *ParsedRecipe, dataResult *ParsedData, err error) {
	p := &parser{lex: NewLexer(src), file: file, tree: tree}
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, nil, err
	}
	if tok.Kind == TokIdent && tok.Text == "recipe" {
		d, err := p.parseData()
		if err != nil {
			return nil, nil, err
		}
		return nil, d, nil
	}
	r, err := p.parseRecipeFile()
	if err != nil {
		return nil, nil, err
	}
	return r, nil, nil
}

// IsDataSource reports whether src begins with the `recipe` keyword that
// only a data file may open with.
// The driver uses it to reject a data file named as an include target with
// an include error rather than a confusing parse error.
func IsDataSource(src []byte) bool {
	tok, err := NewLexer(src).Peek()
	return err == nil && tok.Kind == TokIdent && tok.Text == "recipe"
}

func (p *parser) errorf(line int, format string, args ...interface{}) error {
	return &ParseError{File: p.file, Line: line, Excerpt: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(k TokenKind) (Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != k {
		return Token{}, p.errorf(tok.Line, "expected %s, got %s %q", k, tok.Kind, tok.Text)
	}
	return tok, nil
}

func (p *parser) peekIs(k TokenKind) (bool, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return false, err
	}
	return tok.Kind == k, nil
}

func (p *parser) peekIdentIs(name string) (bool, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return false, err
	}
	return tok.Kind == TokIdent && tok.Text == name, nil
}
