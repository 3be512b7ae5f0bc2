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

import "github.com/kingofpayne/bakery/recipe"

// parseTypeInst parses a type instantiation:
//
//	[unsigned] <path> [ '<' <type-inst>(, …) '>' ] ( '[' [<uint>] ']' )*
//
// Trailing array brackets synthesize a detached recipe.KindArray node
//; it is
// left detached (Parent/ScopeNode unset) until recipe/resolve attaches its
// scope when the instantiation is resolved.
func (p *parser) parseTypeInst(tree *recipe.Tree, scope recipe.NodeID) (*recipe.TypeInstantiation, error) {
	line := 0
	unsigned := false
	isUnsigned, err := p.peekIdentIs("unsigned")
	if err != nil {
		return nil, err
	}
	if isUnsigned {
		p.lex.Next()
		unsigned = true
	}

	path, absolute, pline, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	line = pline

	inst := &recipe.TypeInstantiation{Path: path, Absolute: absolute, Unsigned: unsigned, Line: line}

	isLAngle, err := p.peekIs(TokLAngle)
	if err != nil {
		return nil, err
	}
	if isLAngle {
		p.lex.Next()
		for {
			param, err := p.parseTypeInst(tree, scope)
			if err != nil {
				return nil, err
			}
			inst.Parameters = append(inst.Parameters, param)
			tok, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind == TokComma {
				p.lex.Next()
				continue
			}
			break
		}
		if _, err := p.expect(TokRAngle); err != nil {
			return nil, err
		}
	}

	var dims []recipe.Dimension
	for {
		isLBracket, err := p.peekIs(TokLBracket)
		if err != nil {
			return nil, err
		}
		if !isLBracket {
			break
		}
		p.lex.Next()
		size := 0
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokNumber {
			p.lex.Next()
			n, err := parseUintLiteral(tok.Text)
			if err != nil {
				return nil, p.errorf(tok.Line, "invalid array size %q: %v", tok.Text, err)
			}
			size = n
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		dims = append(dims, recipe.Dimension{Size: size})
	}

	if len(dims) == 0 {
		return inst, nil
	}

	arr := tree.New(recipe.KindArray, "", 0)
	arr.Line = line
	arr.ElemType = inst
	arr.Dimensions = dims
	return &recipe.TypeInstantiation{Synthesized: arr.ID, Line: line}, nil
}

// parsePath parses a type path: one or more identifiers
// separated by `::`, optionally prefixed by `::` to mark it absolute.
func (p *parser) parsePath() ([]string, bool, int, error) {
	absolute := false
	isCC, err := p.peekIs(TokColonColon)
	if err != nil {
		return nil, false, 0, err
	}
	if isCC {
		p.lex.Next()
		absolute = true
	}
	var parts []string
	first, line, err := p.parseIdent()
	if err != nil {
		return nil, false, 0, err
	}
	parts = append(parts, first)
	for {
		isCC, err := p.peekIs(TokColonColon)
		if err != nil {
			return nil, false, 0, err
		}
		if !isCC {
			break
		}
		p.lex.Next()
		next, _, err := p.parseIdent()
		if err != nil {
			return nil, false, 0, err
		}
		parts = append(parts, next)
	}
	return parts, absolute, line, nil
}

func parseUintLiteral(text string) (int, error) {
	n := 0
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, &ParseError{Excerpt: "expected an unsigned integer"}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
