package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/wat/internal/ast"
	"github.com/wippyai/wasm-bench/wat/internal/token"
)

type Parser struct {
	mod       *ast.Module
	funcMap   map[string]uint32
	globalMap map[string]uint32
	memMap    map[string]uint32
	tokens    []token.Token
	labels    []string
	pos       int

	// index spaces, imports first; filled while parsing
	numFuncs   uint32
	numGlobals uint32
	numMems    uint32

	// totals from the prescan, used to range-check numeric indices
	totalFuncs   uint32
	totalGlobals uint32
	totalMems    uint32
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:    tokens,
		funcMap:   make(map[string]uint32),
		globalMap: make(map[string]uint32),
		memMap:    make(map[string]uint32),
	}
}

func (p *Parser) Parse() (*ast.Module, error) {
	return p.parseModule()
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

// lastLine is the line of the most recently consumed token.
func (p *Parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 1
	}
	if p.pos == 0 {
		return p.tokens[0].Line
	}
	return p.tokens[min(p.pos, len(p.tokens))-1].Line
}

func (p *Parser) unexpectedEnd() error {
	return errors.Syntax(p.lastLine(), "unexpected end of input")
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.unexpectedEnd()
	}
	if t.Type != typ {
		return nil, errors.Syntax(t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	t, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if t.Value != kw {
		return errors.Syntax(t.Line, "expected '%s', got %q", kw, t.Value)
	}
	return nil
}

// peekClause reports whether the next tokens open a clause "(kw".
func (p *Parser) peekClause(kw string) bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos].Type == token.LParen &&
		p.tokens[p.pos+1].Type == token.Ident &&
		p.tokens[p.pos+1].Value == kw
}

// openClause consumes "(kw" after peekClause matched.
func (p *Parser) openClause() {
	p.pos += 2
}

// optionalName consumes a $name if one is next.
func (p *Parser) optionalName() string {
	if t := p.peek(); t != nil && isName(t) {
		p.next()
		return t.Value
	}
	return ""
}

func isName(t *token.Token) bool {
	return t.Type == token.Ident && strings.HasPrefix(t.Value, "$")
}

func (p *Parser) pushLabel(name string) {
	p.labels = append(p.labels, name)
}

func (p *Parser) popLabel() {
	if len(p.labels) > 0 {
		p.labels = p.labels[:len(p.labels)-1]
	}
}

func (p *Parser) resolveLabel(name string) (uint32, bool) {
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i] == name {
			return uint32(len(p.labels) - 1 - i), true
		}
	}
	return 0, false
}

func (p *Parser) parseValType() (ast.ValType, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	switch t.Value {
	case "i32":
		return ast.ValTypeI32, nil
	case "i64":
		return ast.ValTypeI64, nil
	case "f32":
		return ast.ValTypeF32, nil
	case "f64":
		return ast.ValTypeF64, nil
	default:
		return 0, errors.UnknownName(t.Line, "value type", t.Value)
	}
}

func (p *Parser) parseU32() (uint32, error) {
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	v, err := parseInt(t.Value)
	if err != nil || v < 0 || v > math.MaxUint32 {
		return 0, errors.Syntax(t.Line, "invalid u32 literal %q", t.Value)
	}
	return uint32(v), nil
}

// parseI32 accepts both the signed and the unsigned range; values above
// MaxInt32 wrap to their two's complement.
func (p *Parser) parseI32() (int32, error) {
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	v, err := parseInt(t.Value)
	if err != nil {
		return 0, errors.Syntax(t.Line, "invalid i32 literal %q", t.Value)
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, errors.New(errors.PhaseParse, errors.KindOverflow).
			Line(t.Line).
			Detailf("i32 literal %s out of range", t.Value).
			Build()
	}
	return int32(v), nil
}

// parseIdx reads a $name resolved through names, or a numeric index below
// limit.
func (p *Parser) parseIdx(names map[string]uint32, limit uint32, what string) (uint32, error) {
	t := p.peek()
	if t == nil {
		return 0, p.unexpectedEnd()
	}
	if isName(t) {
		p.next()
		if idx, ok := names[t.Value]; ok {
			return idx, nil
		}
		return 0, errors.UnknownName(t.Line, what, t.Value)
	}
	if t.Type != token.Number {
		return 0, errors.Syntax(t.Line, "expected %s index, got %q", what, t.Value)
	}
	idx, err := p.parseU32()
	if err != nil {
		return 0, err
	}
	if idx >= limit {
		return 0, errors.Syntax(t.Line, "%s index %d out of range", what, idx)
	}
	return idx, nil
}

func (p *Parser) findOrAddType(ft ast.FuncType) uint32 {
	for i, t := range p.mod.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(p.mod.Types))
	p.mod.Types = append(p.mod.Types, ft)
	return idx
}

// parseInt parses a WAT integer literal: optional sign, decimal or 0x hex,
// with optional '_' separators. A leading zero does not mean octal.
func parseInt(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	var u uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		u, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt64 {
		return 0, strconv.ErrRange
	}
	if neg {
		return -int64(u), nil
	}
	return int64(u), nil
}
