package parser

import (
	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/wat/internal/ast"
	"github.com/wippyai/wasm-bench/wat/internal/token"
)

// prescanNames collects module-level names before the main pass so that
// calls and global references may point forward.
func (p *Parser) prescanNames() {
	nameAt := func(i int) string {
		if i < len(p.tokens) && isName(&p.tokens[i]) {
			return p.tokens[i].Value
		}
		return ""
	}
	register := func(kind, name string) {
		switch kind {
		case "func":
			if name != "" {
				p.funcMap[name] = p.totalFuncs
			}
			p.totalFuncs++
		case "global":
			if name != "" {
				p.globalMap[name] = p.totalGlobals
			}
			p.totalGlobals++
		case "memory":
			if name != "" {
				p.memMap[name] = p.totalMems
			}
			p.totalMems++
		}
	}

	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LParen:
			depth++
			if depth != 1 || i+1 >= len(p.tokens) || p.tokens[i+1].Type != token.Ident {
				continue
			}
			switch kw := p.tokens[i+1].Value; kw {
			case "import":
				// (import "mod" "name" (kind $name? ...))
				if i+5 < len(p.tokens) && p.tokens[i+4].Type == token.LParen {
					register(p.tokens[i+5].Value, nameAt(i+6))
				}
			case "func", "global", "memory":
				register(kw, nameAt(i+2))
			}
		case token.RParen:
			depth--
			if depth < 0 {
				return
			}
		}
	}
}

func (p *Parser) parseModule() (*ast.Module, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("module"); err != nil {
		return nil, err
	}
	p.optionalName()

	p.mod = &ast.Module{}
	p.prescanNames()

	var definedFuncs, definedGlobals, definedMems int

	for {
		t := p.peek()
		if t == nil {
			return nil, p.unexpectedEnd()
		}
		if t.Type == token.RParen {
			p.next()
			break
		}

		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		t, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}

		switch t.Value {
		case "import":
			if err := p.parseImport(definedFuncs, definedGlobals, definedMems); err != nil {
				return nil, err
			}
		case "func":
			definedFuncs++
			if err := p.parseFunc(); err != nil {
				return nil, err
			}
		case "memory":
			definedMems++
			if err := p.parseMemory(); err != nil {
				return nil, err
			}
		case "global":
			definedGlobals++
			if err := p.parseGlobal(); err != nil {
				return nil, err
			}
		case "export":
			if err := p.parseExport(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
				Line(t.Line).
				Detailf("unsupported module field: %s", t.Value).
				Build()
		}
	}

	if t := p.peek(); t != nil {
		return nil, errors.Syntax(t.Line, "unexpected %q after module", t.Value)
	}
	return p.mod, nil
}

// parseFuncSig reads (param ...) and (result ...) clauses. Named params are
// recorded in locals when it is not nil.
func (p *Parser) parseFuncSig(ft *ast.FuncType, locals map[string]uint32) error {
	for {
		switch {
		case p.peekClause("param"):
			p.openClause()
			if name := p.optionalName(); name != "" {
				vt, err := p.parseValType()
				if err != nil {
					return err
				}
				if locals != nil {
					locals[name] = uint32(len(ft.Params))
				}
				ft.Params = append(ft.Params, vt)
			} else {
				for t := p.peek(); t != nil && t.Type == token.Ident; t = p.peek() {
					vt, err := p.parseValType()
					if err != nil {
						return err
					}
					ft.Params = append(ft.Params, vt)
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}

		case p.peekClause("result"):
			p.openClause()
			for t := p.peek(); t != nil && t.Type == token.Ident; t = p.peek() {
				vt, err := p.parseValType()
				if err != nil {
					return err
				}
				ft.Results = append(ft.Results, vt)
			}
			if _, err := p.expect(token.RParen); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// parseInlineExports reads (export "name") clauses attached to a definition.
func (p *Parser) parseInlineExports(kind byte, idx uint32) error {
	for p.peekClause("export") {
		p.openClause()
		name, err := p.expect(token.String)
		if err != nil {
			return err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return err
		}
		p.mod.Exports = append(p.mod.Exports, ast.Export{Name: name.Value, Kind: kind, Idx: idx})
	}
	return nil
}

func (p *Parser) parseImport(definedFuncs, definedGlobals, definedMems int) error {
	modName, err := p.expect(token.String)
	if err != nil {
		return err
	}
	name, err := p.expect(token.String)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	kind, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	p.optionalName()

	afterDefinition := func() error {
		return errors.Syntax(kind.Line, "import of %s %q.%q after a definition", kind.Value, modName.Value, name.Value)
	}

	imp := ast.Import{Module: modName.Value, Name: name.Value}

	switch kind.Value {
	case "func":
		if definedFuncs > 0 {
			return afterDefinition()
		}
		var ft ast.FuncType
		if err := p.parseFuncSig(&ft, nil); err != nil {
			return err
		}
		imp.Desc.Kind = ast.KindFunc
		imp.Desc.TypeIdx = p.findOrAddType(ft)
		p.numFuncs++

	case "global":
		if definedGlobals > 0 {
			return afterDefinition()
		}
		gt, err := p.parseGlobalType()
		if err != nil {
			return err
		}
		imp.Desc.Kind = ast.KindGlobal
		imp.Desc.GlobalTyp = &gt
		p.numGlobals++

	case "memory":
		if definedMems > 0 {
			return afterDefinition()
		}
		lim, err := p.parseLimits()
		if err != nil {
			return err
		}
		imp.Desc.Kind = ast.KindMemory
		imp.Desc.MemLimits = &lim
		p.numMems++

	default:
		return errors.New(errors.PhaseParse, errors.KindUnsupported).
			Line(kind.Line).
			Detailf("unsupported import kind: %s", kind.Value).
			Build()
	}

	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Imports = append(p.mod.Imports, imp)
	return nil
}

func (p *Parser) parseMemory() error {
	p.optionalName()
	idx := p.numMems
	p.numMems++

	if err := p.parseInlineExports(ast.KindMemory, idx); err != nil {
		return err
	}
	lim, err := p.parseLimits()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Memories = append(p.mod.Memories, ast.Memory{Limits: lim})
	return nil
}

func (p *Parser) parseLimits() (ast.Limits, error) {
	var lim ast.Limits
	line := p.lastLine()
	minVal, err := p.parseU32()
	if err != nil {
		return lim, err
	}
	lim.Min = minVal

	if t := p.peek(); t != nil && t.Type == token.Number {
		maxVal, err := p.parseU32()
		if err != nil {
			return lim, err
		}
		if maxVal < minVal {
			return lim, errors.Syntax(line, "limits max %d below min %d", maxVal, minVal)
		}
		lim.Max = &maxVal
	}
	return lim, nil
}

func (p *Parser) parseGlobalType() (ast.GlobalType, error) {
	if p.peekClause("mut") {
		p.openClause()
		vt, err := p.parseValType()
		if err != nil {
			return ast.GlobalType{}, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return ast.GlobalType{}, err
		}
		return ast.GlobalType{ValType: vt, Mutable: true}, nil
	}
	vt, err := p.parseValType()
	if err != nil {
		return ast.GlobalType{}, err
	}
	return ast.GlobalType{ValType: vt}, nil
}

func (p *Parser) parseGlobal() error {
	line := p.lastLine()
	p.optionalName()
	idx := p.numGlobals
	p.numGlobals++

	if err := p.parseInlineExports(ast.KindGlobal, idx); err != nil {
		return err
	}
	gt, err := p.parseGlobalType()
	if err != nil {
		return err
	}

	initExpr, ended, err := p.parseInstrs(nil)
	if err != nil {
		return err
	}
	if ended {
		return errors.Syntax(line, "unexpected 'end' in global initializer")
	}
	for _, ins := range initExpr {
		if ins.Opcode != ast.OpI32Const && ins.Opcode != ast.OpGlobalGet {
			return errors.Syntax(line, "global initializer must be a constant expression")
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Globals = append(p.mod.Globals, ast.Global{Type: gt, Init: initExpr})
	return nil
}

func (p *Parser) parseExport() error {
	name, err := p.expect(token.String)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	kind, err := p.expect(token.Ident)
	if err != nil {
		return err
	}

	var (
		kindByte byte
		idx      uint32
	)
	switch kind.Value {
	case "func":
		kindByte = ast.KindFunc
		idx, err = p.parseIdx(p.funcMap, p.totalFuncs, "function")
	case "memory":
		kindByte = ast.KindMemory
		idx, err = p.parseIdx(p.memMap, p.totalMems, "memory")
	case "global":
		kindByte = ast.KindGlobal
		idx, err = p.parseIdx(p.globalMap, p.totalGlobals, "global")
	default:
		return errors.UnknownName(kind.Line, "export kind", kind.Value)
	}
	if err != nil {
		return err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Exports = append(p.mod.Exports, ast.Export{Name: name.Value, Kind: kindByte, Idx: idx})
	return nil
}
