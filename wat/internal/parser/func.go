package parser

import (
	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/wat/internal/ast"
	"github.com/wippyai/wasm-bench/wat/internal/token"
)

func (p *Parser) parseFunc() error {
	line := p.lastLine()
	p.optionalName()
	idx := p.numFuncs
	p.numFuncs++

	if err := p.parseInlineExports(ast.KindFunc, idx); err != nil {
		return err
	}

	locals := make(map[string]uint32)
	var ft ast.FuncType
	if err := p.parseFuncSig(&ft, locals); err != nil {
		return err
	}

	body := ast.FuncBody{}
	for p.peekClause("local") {
		p.openClause()
		if name := p.optionalName(); name != "" {
			vt, err := p.parseValType()
			if err != nil {
				return err
			}
			locals[name] = uint32(len(ft.Params) + len(body.Locals))
			body.Locals = append(body.Locals, vt)
		} else {
			for t := p.peek(); t != nil && t.Type == token.Ident; t = p.peek() {
				vt, err := p.parseValType()
				if err != nil {
					return err
				}
				body.Locals = append(body.Locals, vt)
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return err
		}
	}

	p.labels = p.labels[:0]
	code, ended, err := p.parseInstrs(locals)
	if err != nil {
		return err
	}
	if ended {
		return errors.Syntax(line, "unexpected 'end' outside of a block")
	}
	body.Code = code

	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	p.mod.Funcs = append(p.mod.Funcs, ast.FuncEntry{TypeIdx: p.findOrAddType(ft)})
	p.mod.Code = append(p.mod.Code, body)
	return nil
}
