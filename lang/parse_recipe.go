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
	"github.com/kingofpayne/bakery/recipe"
	"github.com/kingofpayne/bakery/srcfile"
)

// parseRecipeFile implements the recipe-file production:
// `(include <file_indication> ';')* <composite-content>`.
func (p *parser) parseRecipeFile() (*ParsedRecipe, error) {
	includes, err := p.parseRecipeBody(p.tree.Root)
	if err != nil {
		return nil, err
	}
	return &ParsedRecipe{Tree: p.tree, Root: p.tree.Root, Includes: includes}, nil
}

// parseRecipeBody parses `(include <file_indication> ';')* <composite-content>`
// directly under scope and returns the includes named at the top. It
// underlies both ParseSource's top-level recipe case (scope == tree.Root)
// and ParseRecipeInto (an arbitrary scope, used by the driver's include
// merge), since the production is identical either
// way — only where the resulting nodes attach differs.
func (p *parser) parseRecipeBody(scope recipe.NodeID) ([]srcfile.Indication, error) {
	tree := p.tree
	var includes []srcfile.Indication

	for {
		isInclude, err := p.peekIdentIs("include")
		if err != nil {
			return nil, err
		}
		if !isInclude {
			break
		}
		if _, err := p.lex.Next(); err != nil { // consume "include"
			return nil, err
		}
		ind, err := p.lex.ReadFileIndication()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokSemicolon); err != nil {
			return nil, err
		}
		includes = append(includes, ind)
	}

	if err := p.parseCompositeContent(tree, scope); err != nil {
		return nil, err
	}

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokEOF {
		return nil, p.errorf(tok.Line, "unexpected trailing token %s %q", tok.Kind, tok.Text)
	}

	return includes, nil
}

// ParseRecipeInto parses src as a recipe file's body directly under scope
// of an already-existing tree, returning its includes. Used by the driver
// to parse an included file's declarations into a detached scope before
// merging its type/namespace children into the including recipe and
// discarding its member children — unlike
// ParseSource, it never creates a new tree and never assumes scope is the
// tree's own Root.
func ParseRecipeInto(src []byte, file string, tree *recipe.Tree, scope recipe.NodeID) ([]srcfile.Indication, error) {
	p := &parser{lex: NewLexer(src), file: file, tree: tree}
	return p.parseRecipeBody(scope)
}

// ParseFileIndicationText parses a single `"name"` or `<name>` file
// indication from text, for driver/CLI entry points that accept a recipe
// reference directly rather than reading it out of a data file header.
func ParseFileIndicationText(text string) (srcfile.Indication, error) {
	lex := NewLexer([]byte(text))
	return lex.ReadFileIndication()
}

// ParseTypeInstText parses a single type instantiation from text against
// scope within tree, for the same driver/CLI entry points.
func ParseTypeInstText(text string, tree *recipe.Tree, scope recipe.NodeID) (*recipe.TypeInstantiation, error) {
	p := &parser{lex: NewLexer([]byte(text)), tree: tree}
	return p.parseTypeInst(tree, scope)
}

// parseCompositeContent parses composite content:
// an optionally-';'-separated, optionally-trailing-';' list of namespace,
// struct, variant, typedef, enum, and member declarations, attached under
// scope as they are parsed.
func (p *parser) parseCompositeContent(tree *recipe.Tree, scope recipe.NodeID) error {
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == TokEOF || tok.Kind == TokRBrace {
			return nil
		}

		switch {
		case tok.Kind == TokIdent && tok.Text == "namespace":
			if err := p.parseNamespace(tree, scope); err != nil {
				return err
			}
		case tok.Kind == TokIdent && tok.Text == "struct":
			if err := p.parseStruct(tree, scope); err != nil {
				return err
			}
		case tok.Kind == TokIdent && tok.Text == "variant":
			if err := p.parseVariant(tree, scope); err != nil {
				return err
			}
		case tok.Kind == TokIdent && tok.Text == "typedef":
			if err := p.parseTypedef(tree, scope); err != nil {
				return err
			}
		case tok.Kind == TokIdent && tok.Text == "enum":
			if err := p.parseEnum(tree, scope); err != nil {
				return err
			}
		default:
			if err := p.parseMember(tree, scope); err != nil {
				return err
			}
		}

		// entries are ';'-separated with an optional trailing ';'; be
		// lenient about repeats and about composite entries (struct,
		// variant, namespace) that end in '}' needing none.
		for {
			isSemi, err := p.peekIs(TokSemicolon)
			if err != nil {
				return err
			}
			if !isSemi {
				break
			}
			if _, err := p.lex.Next(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseIdent() (string, int, error) {
	tok, err := p.expect(TokIdent)
	if err != nil {
		return "", 0, err
	}
	return tok.Text, tok.Line, nil
}

// parseTemplateParams parses `'<' ident (',' ident)* '>'` declaring
// template parameter slots, returning their names in order.
func (p *parser) parseTemplateParams() ([]string, error) {
	isLAngle, err := p.peekIs(TokLAngle)
	if err != nil || !isLAngle {
		return nil, err
	}
	if _, err := p.lex.Next(); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, _, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
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
	return names, nil
}

// attachTemplateSlots creates one KindTemplateType child of node per name.
func attachTemplateSlots(tree *recipe.Tree, node recipe.NodeID, names []string) {
	for i, name := range names {
		slot := tree.New(recipe.KindTemplateType, name, node)
		slot.TemplateSlot = i
	}
}

func (p *parser) parseNamespace(tree *recipe.Tree, scope recipe.NodeID) error {
	if _, err := p.lex.Next(); err != nil { // "namespace"
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return err
	}
	ns := tree.New(recipe.KindNamespace, name, scope)
	ns.Line = line
	if err := p.parseCompositeContent(tree, ns.ID); err != nil {
		return err
	}
	_, err = p.expect(TokRBrace)
	return err
}

func (p *parser) parseStruct(tree *recipe.Tree, scope recipe.NodeID) error {
	if _, err := p.lex.Next(); err != nil { // "struct"
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	templateNames, err := p.parseTemplateParams()
	if err != nil {
		return err
	}

	var heritance []*recipe.TypeInstantiation
	isColon, err := p.peekIs(TokColon)
	if err != nil {
		return err
	}
	if isColon {
		p.lex.Next()
		for {
			inst, err := p.parseTypeInst(tree, scope)
			if err != nil {
				return err
			}
			heritance = append(heritance, inst)
			tok, err := p.lex.Peek()
			if err != nil {
				return err
			}
			if tok.Kind == TokComma {
				p.lex.Next()
				continue
			}
			break
		}
	}

	if _, err := p.expect(TokLBrace); err != nil {
		return err
	}
	st := tree.New(recipe.KindStructure, name, scope)
	st.Line = line
	st.Heritance = heritance
	attachTemplateSlots(tree, st.ID, templateNames)
	if err := p.parseCompositeContent(tree, st.ID); err != nil {
		return err
	}
	_, err = p.expect(TokRBrace)
	return err
}

func (p *parser) parseVariant(tree *recipe.Tree, scope recipe.NodeID) error {
	if _, err := p.lex.Next(); err != nil { // "variant"
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	templateNames, err := p.parseTemplateParams()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return err
	}
	v := tree.New(recipe.KindVariant, name, scope)
	v.Line = line
	attachTemplateSlots(tree, v.ID, templateNames)
	if err := p.parseCompositeContent(tree, v.ID); err != nil {
		return err
	}
	_, err = p.expect(TokRBrace)
	return err
}

func (p *parser) parseTypedef(tree *recipe.Tree, scope recipe.NodeID) error {
	if _, err := p.lex.Next(); err != nil { // "typedef"
		return err
	}
	target, err := p.parseTypeInst(tree, scope)
	if err != nil {
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	templateNames, err := p.parseTemplateParams()
	if err != nil {
		return err
	}
	td := tree.New(recipe.KindTypedef, name, scope)
	td.Line = line
	td.Type = target
	attachTemplateSlots(tree, td.ID, templateNames)
	return nil
}

func (p *parser) parseEnum(tree *recipe.Tree, scope recipe.NodeID) error {
	if _, err := p.lex.Next(); err != nil { // "enum"
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return err
	}
	en := tree.New(recipe.KindEnum, name, scope)
	en.Line = line

	for {
		isRBrace, err := p.peekIs(TokRBrace)
		if err != nil {
			return err
		}
		if isRBrace {
			break
		}
		vname, vline, err := p.parseIdent()
		if err != nil {
			return err
		}
		ev := tree.New(recipe.KindEnumValue, vname, en.ID)
		ev.Line = vline
		isEq, err := p.peekIs(TokEquals)
		if err != nil {
			return err
		}
		if isEq {
			p.lex.Next()
			sign := ""
			tok, err := p.lex.Peek()
			if err != nil {
				return err
			}
			if tok.Kind == TokNumber {
				p.lex.Next()
				sign = tok.Text
			} else {
				return p.errorf(tok.Line, "expected a signed integer, got %s %q", tok.Kind, tok.Text)
			}
			ev.HasEnumFixed = true
			ev.EnumFixed = sign
		}
		tok, err := p.lex.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == TokComma {
			p.lex.Next()
			continue
		}
		break
	}
	_, err = p.expect(TokRBrace)
	return err
}

func (p *parser) parseMember(tree *recipe.Tree, scope recipe.NodeID) error {
	optional := false
	isOptional, err := p.peekIdentIs("optional")
	if err != nil {
		return err
	}
	if isOptional {
		p.lex.Next()
		optional = true
	}
	inst, err := p.parseTypeInst(tree, scope)
	if err != nil {
		return err
	}
	name, line, err := p.parseIdent()
	if err != nil {
		return err
	}
	m := tree.New(recipe.KindMember, name, scope)
	m.Line = line
	m.Type = inst
	if optional {
		m.Qualifiers |= recipe.QualOptional
	}

	isEq, err := p.peekIs(TokEquals)
	if err != nil {
		return err
	}
	if isEq {
		p.lex.Next()
		val, err := p.parseDatValue(line)
		if err != nil {
			return err
		}
		m.Default = val
	}
	return nil
}
