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
	"strings"

	"github.com/kingofpayne/bakery/data"
	"github.com/kingofpayne/bakery/recipe"
)

// parseData implements the data-file production:
// `recipe <file_indication> [<type_instantiation>] ';' <assignment-list>`.
func (p *parser) parseData() (*ParsedData, error) {
	if _, err := p.lex.Next(); err != nil { // "recipe"
		return nil, err
	}
	ind, err := p.lex.ReadFileIndication()
	if err != nil {
		return nil, err
	}

	var typeInst *recipe.TypeInstantiation
	isSemi, err := p.peekIs(TokSemicolon)
	if err != nil {
		return nil, err
	}
	if !isSemi {
		t, err := p.parseTypeInst(p.tree, p.tree.Root)
		if err != nil {
			return nil, err
		}
		typeInst = t
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}

	root := &data.Node{Kind: data.Group}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokEOF {
			break
		}
		name, line, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokEquals); err != nil {
			return nil, err
		}
		val, err := p.parseDatValue(line)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, &data.Node{Kind: data.Assignment, Name: name, Line: line, Children: []*data.Node{val}})

		isSemi, err := p.peekIs(TokSemicolon)
		if err != nil {
			return nil, err
		}
		if isSemi {
			p.lex.Next()
		}
	}

	return &ParsedData{
		Indication: RecipeIndication{File: ind, Type: typeInst},
		Root:       root,
	}, nil
}

// parseDatValue parses one value:
// bool | floating | string | identifier | variant-value | group | map-literal.
func (p *parser) parseDatValue(line int) (*data.Node, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Kind == TokIdent && (tok.Text == "true" || tok.Text == "false"):
		p.lex.Next()
		return &data.Node{Kind: data.Bool, Flag: tok.Text == "true", Line: tok.Line}, nil
	case tok.Kind == TokIdent:
		p.lex.Next()
		next, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == TokColon {
			p.lex.Next()
			val, err := p.parseDatValue(next.Line)
			if err != nil {
				return nil, err
			}
			return &data.Node{Kind: data.Variant, Name: tok.Text, Line: tok.Line, Children: []*data.Node{val}}, nil
		}
		return &data.Node{Kind: data.Identifier, Text: tok.Text, Line: tok.Line}, nil
	case tok.Kind == TokString:
		p.lex.Next()
		return &data.Node{Kind: data.String, Text: tok.Text, Line: tok.Line}, nil
	case tok.Kind == TokNumber:
		p.lex.Next()
		f, err := decomposeNumber(tok.Text)
		if err != nil {
			return nil, p.errorf(tok.Line, "%v", err)
		}
		return &data.Node{Kind: data.Number, Num: f, Line: tok.Line}, nil
	case tok.Kind == TokLBrace:
		return p.parseGroup()
	default:
		return nil, p.errorf(tok.Line, "expected a value, got %s %q", tok.Kind, tok.Text)
	}
}

// parseGroup parses a braced `{ ... }` group. A group's items
// are disambiguated one at a time: an item that parses as a plain value and
// is then followed by '=' is re-interpreted as a MapAssignment (its parsed
// form becomes the key); any other item is a plain list element. Items
// shaped exactly `ident = value` are recognized up front as an Assignment,
// matching how nested structure-literal values are written.
func (p *parser) parseGroup() (*data.Node, error) {
	open, err := p.expect(TokLBrace)
	if err != nil {
		return nil, err
	}
	grp := &data.Node{Kind: data.Group, Line: open.Line}

	for {
		isRBrace, err := p.peekIs(TokRBrace)
		if err != nil {
			return nil, err
		}
		if isRBrace {
			break
		}

		item, err := p.parseGroupItem()
		if err != nil {
			return nil, err
		}
		grp.Children = append(grp.Children, item)

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

	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return grp, nil
}

func (p *parser) parseGroupItem() (*data.Node, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	next, err := p.lex.PeekN(1)
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokIdent && tok.Text != "true" && tok.Text != "false" && next.Kind == TokEquals {
		p.lex.Next()
		p.lex.Next()
		val, err := p.parseDatValue(tok.Line)
		if err != nil {
			return nil, err
		}
		return &data.Node{Kind: data.Assignment, Name: tok.Text, Line: tok.Line, Children: []*data.Node{val}}, nil
	}

	key, err := p.parseDatValue(tok.Line)
	if err != nil {
		return nil, err
	}
	isEq, err := p.peekIs(TokEquals)
	if err != nil {
		return nil, err
	}
	if isEq {
		p.lex.Next()
		val, err := p.parseDatValue(tok.Line)
		if err != nil {
			return nil, err
		}
		return &data.Node{Kind: data.MapAssignment, Line: tok.Line, Children: []*data.Node{key, val}}, nil
	}
	return key, nil
}

// decomposeNumber splits the lexer's raw NUMBER text into a
// data.Floating.
func decomposeNumber(text string) (data.Floating, error) {
	f := data.Floating{}
	if strings.HasPrefix(text, "-") {
		f.Negative = true
		text = text[1:]
	}
	rest := text
	if idx := strings.IndexAny(rest, "eE"); idx >= 0 {
		f.Exponent = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "."); idx >= 0 {
		f.Integer = rest[:idx]
		f.Decimal = rest[idx+1:]
	} else {
		f.Integer = rest
	}
	if f.Integer == "" && f.Decimal == "" {
		// `e-9` means 1.0e-9.
		f.Integer = "1"
	}
	return f, nil
}
