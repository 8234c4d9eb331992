// Package sqlparse implements the tokenizer and recursive-descent
// parser for the SQL subset in spec §4.3: SELECT / FROM / WHERE /
// ORDER BY / LIMIT / OFFSET, with multi-key sort and method-style
// WHERE predicates. GROUP BY, HAVING, and anything else outside the
// core grammar are rejected with a precise parse error rather than
// silently ignored (spec "Design Notes": "No aggregates in the core").
package sqlparse

import (
	"fmt"
	"strings"

	"sqlcli/internal/whereast"
)

// OrderKey is one column of a (possibly multi-column) ORDER BY clause.
type OrderKey struct {
	Column string
	Desc   bool
}

// Statement is the parsed query AST (spec §3.2).
type Statement struct {
	Columns []string // ["*"] sentinel for SELECT *
	Table   string
	Where   whereast.Expr // nil if no WHERE clause
	OrderBy []OrderKey
	Limit   *int
	Offset  *int
}

// ParseError carries the token position so callers can render
// "col N: ..." (spec §4.3, §7: "lex/parse errors (with position)").
type ParseError struct {
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Reason)
}

type parser struct {
	tokens []Token
	pos    int
}

// Parse lexes and parses sql into a Statement.
func Parse(sql string) (*Statement, error) {
	toks, err := NewLexer(sql).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: toks}
	return p.parseStatement()
}

func (p *parser) peek() Token  { return p.tokens[p.pos] }
func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.peek().Kind != kind {
		return Token{}, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("expected %s, got %s %q", kind, p.peek().Kind, p.peek().Text)}
	}
	return p.advance(), nil
}

func (p *parser) parseStatement() (*Statement, error) {
	if _, err := p.expect(TokSelect); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokFrom); err != nil {
		return nil, err
	}
	tableTok, err := p.parseIdentLike()
	if err != nil {
		return nil, err
	}

	stmt := &Statement{Columns: cols, Table: tableTok}

	if p.peek().Kind == TokGroupBy || p.peek().Kind == TokHaving {
		return nil, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("%s is not supported by this query engine (no aggregates in the core)", p.peek().Kind)}
	}

	if p.peek().Kind == TokWhere {
		p.advance()
		where, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.peek().Kind == TokGroupBy || p.peek().Kind == TokHaving {
		return nil, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("%s is not supported by this query engine (no aggregates in the core)", p.peek().Kind)}
	}

	if p.peek().Kind == TokOrderBy {
		p.advance()
		keys, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = keys
	}

	if p.peek().Kind == TokLimit {
		p.advance()
		n, err := p.expect(TokNumber)
		if err != nil {
			return nil, err
		}
		v := int(n.Num)
		stmt.Limit = &v
	}

	if p.peek().Kind == TokOffset {
		p.advance()
		n, err := p.expect(TokNumber)
		if err != nil {
			return nil, err
		}
		v := int(n.Num)
		stmt.Offset = &v
	}

	if p.peek().Kind != TokEOF {
		return nil, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("unexpected trailing token %s %q", p.peek().Kind, p.peek().Text)}
	}
	return stmt, nil
}

func (p *parser) parseColumnList() ([]string, error) {
	if p.peek().Kind == TokStar {
		p.advance()
		return []string{"*"}, nil
	}
	var cols []string
	for {
		id, err := p.parseIdentLike()
		if err != nil {
			return nil, err
		}
		cols = append(cols, id)
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	return cols, nil
}

// parseIdentLike accepts a plain or double-quoted identifier.
func (p *parser) parseIdentLike() (string, error) {
	if p.peek().Kind != TokIdent {
		return "", &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("expected identifier, got %s %q", p.peek().Kind, p.peek().Text)}
	}
	return p.advance().Text, nil
}

func (p *parser) parseOrderByList() ([]OrderKey, error) {
	var keys []OrderKey
	for {
		col, err := p.parseIdentLike()
		if err != nil {
			return nil, err
		}
		desc := false
		switch p.peek().Kind {
		case TokAsc:
			p.advance()
		case TokDesc:
			desc = true
			p.advance()
		}
		keys = append(keys, OrderKey{Column: col, Desc: desc})
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	return keys, nil
}

// Precedence: NOT > AND > OR (spec §4.3).
func (p *parser) parseOrExpr() (whereast.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokOr {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = whereast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (whereast.Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = whereast.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNotExpr() (whereast.Expr, error) {
	if p.peek().Kind == TokNot {
		p.advance()
		child, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return whereast.Not{Child: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (whereast.Expr, error) {
	if p.peek().Kind == TokLParen {
		p.advance()
		expr, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (whereast.Expr, error) {
	column, err := p.parseIdentLike()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case TokDot:
		return p.parseMethodPredicate(column)
	case TokIs:
		p.advance()
		negate := false
		if p.peek().Kind == TokNot {
			negate = true
			p.advance()
		}
		if _, err := p.expect(TokNull); err != nil {
			return nil, err
		}
		return whereast.IsNull{Column: column, Negate: negate}, nil
	case TokNot:
		p.advance()
		switch p.peek().Kind {
		case TokIn:
			return p.parseInPredicate(column, true)
		case TokBetween:
			between, err := p.parseBetweenPredicate(column)
			if err != nil {
				return nil, err
			}
			return whereast.Not{Child: between}, nil
		default:
			return nil, &ParseError{Pos: p.peek().Pos, Reason: "expected IN or BETWEEN after NOT"}
		}
	case TokIn:
		return p.parseInPredicate(column, false)
	case TokBetween:
		return p.parseBetweenPredicate(column)
	case TokLike:
		p.advance()
		pat, err := p.expect(TokString)
		if err != nil {
			return nil, err
		}
		return whereast.Like{Column: column, Pattern: pat.Text}, nil
	case TokOp:
		op, val, err := p.parseOpValue()
		if err != nil {
			return nil, err
		}
		return whereast.Compare{Column: column, Op: op, Value: val}, nil
	default:
		return nil, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("unexpected token %s %q in predicate", p.peek().Kind, p.peek().Text)}
	}
}

func (p *parser) parseOpValue() (whereast.Op, whereast.Literal, error) {
	opTok, err := p.expect(TokOp)
	if err != nil {
		return 0, whereast.Literal{}, err
	}
	op, err := opFromText(opTok)
	if err != nil {
		return 0, whereast.Literal{}, err
	}
	val, err := p.parseLiteral()
	return op, val, err
}

func opFromText(t Token) (whereast.Op, error) {
	switch t.Text {
	case "=":
		return whereast.OpEQ, nil
	case "!=", "<>":
		return whereast.OpNE, nil
	case "<":
		return whereast.OpLT, nil
	case "<=":
		return whereast.OpLE, nil
	case ">":
		return whereast.OpGT, nil
	case ">=":
		return whereast.OpGE, nil
	default:
		return 0, &ParseError{Pos: t.Pos, Reason: fmt.Sprintf("unknown operator %q", t.Text)}
	}
}

func (p *parser) parseLiteral() (whereast.Literal, error) {
	switch p.peek().Kind {
	case TokString:
		return whereast.StringLiteral(p.advance().Text), nil
	case TokNumber:
		return whereast.NumberLiteral(p.advance().Num), nil
	default:
		return whereast.Literal{}, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("expected literal, got %s %q", p.peek().Kind, p.peek().Text)}
	}
}

func (p *parser) parseInPredicate(column string, negate bool) (whereast.Expr, error) {
	if _, err := p.expect(TokIn); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var values []whereast.Literal
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.peek().Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return whereast.In{Column: column, Values: values, Negate: negate}, nil
}

func (p *parser) parseBetweenPredicate(column string) (whereast.Expr, error) {
	if _, err := p.expect(TokBetween); err != nil {
		return nil, err
	}
	low, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokAnd); err != nil {
		return nil, err
	}
	high, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return whereast.Between{Column: column, Low: low, High: high}, nil
}

var methodNames = map[string]whereast.Method{
	"contains":   whereast.MethodContains,
	"startswith": whereast.MethodStartsWith,
	"endswith":   whereast.MethodEndsWith,
	"tolower":    whereast.MethodToLower,
	"toupper":    whereast.MethodToUpper,
	"length":     whereast.MethodLength,
	"indexof":    whereast.MethodIndexOf,
}

func (p *parser) parseMethodPredicate(column string) (whereast.Expr, error) {
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	method, ok := methodNames[strings.ToLower(nameTok.Text)]
	if !ok {
		return nil, &ParseError{Pos: nameTok.Pos, Reason: fmt.Sprintf("unknown method %q", nameTok.Text)}
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var arg string
	needsArg := method == whereast.MethodContains || method == whereast.MethodStartsWith ||
		method == whereast.MethodEndsWith || method == whereast.MethodIndexOf
	if needsArg {
		argTok, err := p.expect(TokString)
		if err != nil {
			return nil, err
		}
		arg = argTok.Text
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}

	pred := whereast.MethodPredicate{Column: column, Method: method, Arg: arg}

	needsComparison := method == whereast.MethodToLower || method == whereast.MethodToUpper ||
		method == whereast.MethodLength || method == whereast.MethodIndexOf

	if p.peek().Kind == TokOp {
		op, val, err := p.parseOpValue()
		if err != nil {
			return nil, err
		}
		pred.HasComparison = true
		pred.Op = op
		pred.CompareValue = val
	} else if needsComparison {
		return nil, &ParseError{Pos: p.peek().Pos, Reason: fmt.Sprintf("%s(...) requires a trailing comparison", method)}
	}
	return pred, nil
}
