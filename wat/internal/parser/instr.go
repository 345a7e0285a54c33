package parser

import (
	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/wat/internal/ast"
	"github.com/wippyai/wasm-bench/wat/internal/opcode"
	"github.com/wippyai/wasm-bench/wat/internal/token"
)

// parseInstrs parses instructions up to the ')' closing the enclosing form,
// which is left unconsumed, or up to a flat 'end', which is consumed and
// reported through ended.
func (p *Parser) parseInstrs(locals map[string]uint32) (instrs []ast.Instr, ended bool, err error) {
	for {
		t := p.peek()
		if t == nil {
			return nil, false, p.unexpectedEnd()
		}

		switch t.Type {
		case token.RParen:
			return instrs, false, nil
		case token.LParen:
			p.next()
			folded, err := p.parseFolded(locals)
			if err != nil {
				return nil, false, err
			}
			instrs = append(instrs, folded...)
			continue
		case token.Ident:
		default:
			return nil, false, errors.Syntax(t.Line, "expected instruction, got %v %q", t.Type, t.Value)
		}

		p.next()
		switch t.Value {
		case "end":
			return instrs, true, nil
		case "block", "loop":
			block, err := p.parseBlock(t, locals, false)
			if err != nil {
				return nil, false, err
			}
			instrs = append(instrs, block...)
		default:
			ins, err := p.parsePlain(t, locals)
			if err != nil {
				return nil, false, err
			}
			instrs = append(instrs, ins)
		}
	}
}

// parseFolded parses "(instr operands...)" after its '(' was consumed.
// Operands are emitted before the instruction itself.
func (p *Parser) parseFolded(locals map[string]uint32) ([]ast.Instr, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	if t.Value == "block" || t.Value == "loop" {
		return p.parseBlock(t, locals, true)
	}

	ins, err := p.parsePlain(t, locals)
	if err != nil {
		return nil, err
	}

	var instrs []ast.Instr
	for tok := p.peek(); tok != nil && tok.Type == token.LParen; tok = p.peek() {
		p.next()
		operand, err := p.parseFolded(locals)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, operand...)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return append(instrs, ins), nil
}

// parseBlock parses a block or loop after its keyword. A folded block ends
// at ')', which is consumed; a flat block ends at 'end', optionally followed
// by the block's label.
func (p *Parser) parseBlock(kw *token.Token, locals map[string]uint32, folded bool) ([]ast.Instr, error) {
	label := p.optionalName()
	bt, err := p.parseBlockType()
	if err != nil {
		return nil, err
	}

	op := ast.OpBlock
	if kw.Value == "loop" {
		op = ast.OpLoop
	}

	p.pushLabel(label)
	body, ended, err := p.parseInstrs(locals)
	p.popLabel()
	if err != nil {
		return nil, err
	}

	if folded {
		if ended {
			return nil, errors.Syntax(p.lastLine(), "unexpected 'end' in folded %s", kw.Value)
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	} else {
		if !ended {
			return nil, errors.Syntax(kw.Line, "%s without 'end'", kw.Value)
		}
		if t := p.peek(); t != nil && isName(t) {
			if t.Value != label {
				return nil, errors.Syntax(t.Line, "end label %s does not match %q", t.Value, label)
			}
			p.next()
		}
	}

	instrs := make([]ast.Instr, 0, len(body)+2)
	instrs = append(instrs, ast.Instr{Opcode: op, Imm: bt})
	instrs = append(instrs, body...)
	return append(instrs, ast.Instr{Opcode: ast.OpEnd}), nil
}

// parseBlockType reads an optional single (result t). Multi-value block
// types are not supported.
func (p *Parser) parseBlockType() (byte, error) {
	if p.peekClause("param") {
		return 0, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Line(p.tokens[p.pos].Line).
			Detail("block parameters are not supported").
			Build()
	}
	if !p.peekClause("result") {
		return ast.BlockTypeEmpty, nil
	}
	p.openClause()
	line := p.lastLine()
	vt, err := p.parseValType()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t != nil && t.Type == token.Ident {
		return 0, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Line(line).
			Detail("multi-value block results are not supported").
			Build()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	return byte(vt), nil
}

func (p *Parser) parsePlain(t *token.Token, locals map[string]uint32) (ast.Instr, error) {
	info, ok := opcode.Lookup(t.Value)
	if !ok {
		return ast.Instr{}, errors.UnknownName(t.Line, "instruction", t.Value)
	}

	ins := ast.Instr{Opcode: info.Opcode}
	var err error
	switch info.ImmType {
	case opcode.ImmNone:
	case opcode.ImmLabel:
		ins.Imm, err = p.parseLabelIdx()
	case opcode.ImmFunc:
		ins.Imm, err = p.parseIdx(p.funcMap, p.totalFuncs, "function")
	case opcode.ImmLocal:
		if locals == nil {
			return ast.Instr{}, errors.Syntax(t.Line, "%s outside of a function", t.Value)
		}
		ins.Imm, err = p.parseIdx(locals, ^uint32(0), "local")
	case opcode.ImmGlobal:
		ins.Imm, err = p.parseIdx(p.globalMap, p.totalGlobals, "global")
	case opcode.ImmI32:
		ins.Imm, err = p.parseI32()
	}
	if err != nil {
		return ast.Instr{}, err
	}
	return ins, nil
}

// parseLabelIdx resolves a branch target to its relative depth. Depth
// len(labels) is the function body itself.
func (p *Parser) parseLabelIdx() (uint32, error) {
	t := p.peek()
	if t == nil {
		return 0, p.unexpectedEnd()
	}
	if isName(t) {
		p.next()
		if depth, ok := p.resolveLabel(t.Value); ok {
			return depth, nil
		}
		return 0, errors.UnknownName(t.Line, "label", t.Value)
	}
	return p.parseIdx(nil, uint32(len(p.labels))+1, "label")
}
