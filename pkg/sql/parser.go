// Package sql implements the restricted SELECT interpreter used against
// in-memory collections:
//
//	SELECT (* | col[,col...]) FROM table [WHERE col = value]
//	    [ORDER BY col [asc|desc]] [LIMIT n]
//
// WHERE supports a single equality comparison only. Other comparison
// operators parse but are marked unsupported: the executor keeps every
// row instead of erroring, which preserves the lenient behavior callers
// depend on.
package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
	// ErrNotSelect indicates the statement is not a SELECT.
	ErrNotSelect = errors.New("only SELECT statements are supported")
)

// Where is a single comparison from the WHERE clause. Supported is false
// for any operator other than "=", in which case the executor applies no
// filtering at all.
type Where struct {
	Column    string
	Operator  string
	Value     string
	Supported bool
}

// OrderBy describes the sort column and direction. Ascending is the
// default; Desc is set when "desc" appears anywhere after the column.
type OrderBy struct {
	Column string
	Desc   bool
}

// Statement is a parsed pseudo-SQL SELECT.
type Statement struct {
	Columns []string // nil when Star
	Star    bool
	Table   string
	Where   *Where
	OrderBy *OrderBy
	Limit   int // -1 when absent
}

// Parse tokenizes and parses a pseudo-SQL string.
func Parse(query string) (*Statement, error) {
	normalized, err := normalize(query)
	if err != nil {
		return nil, err
	}

	toks := tokenize(normalized)
	p := &parser{toks: toks}
	return p.parseSelect()
}

// normalize strips a trailing semicolon and rejects embedded ones.
func normalize(query string) (string, error) {
	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")
	query = strings.TrimSpace(query)
	if strings.ContainsRune(query, ';') {
		return "", ErrMultipleStatements
	}
	return query, nil
}

// tokenize splits the statement into words, punctuation, and quoted
// strings. Quoted strings keep their content without the quotes.
func tokenize(s string) []string {
	var toks []string
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			var sb strings.Builder
			for j < len(runes) && runes[j] != quote {
				sb.WriteRune(runes[j])
				j++
			}
			toks = append(toks, "'"+sb.String())
			i = j + 1
		case r == ',' || r == '*' || r == '(' || r == ')':
			toks = append(toks, string(r))
			i++
		case r == '=' || r == '<' || r == '>' || r == '!':
			j := i + 1
			op := string(r)
			if j < len(runes) && (runes[j] == '=' || runes[j] == '>') {
				op += string(runes[j])
				j++
			}
			toks = append(toks, op)
			i = j
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) &&
				!strings.ContainsRune(",*()=<>!'\"", runes[j]) {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		}
	}
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) peekKeyword(kw string) bool {
	return strings.EqualFold(p.peek(), kw)
}

func (p *parser) expectKeyword(kw string) error {
	if !p.peekKeyword(kw) {
		return fmt.Errorf("expected %s, got %q", strings.ToUpper(kw), p.peek())
	}
	p.pos++
	return nil
}

// atClauseBoundary reports whether the next token starts a later clause.
func (p *parser) atClauseBoundary() bool {
	return p.pos >= len(p.toks) ||
		p.peekKeyword("where") || p.peekKeyword("order") || p.peekKeyword("limit")
}

func (p *parser) parseSelect() (*Statement, error) {
	if !p.peekKeyword("select") {
		return nil, ErrNotSelect
	}
	p.pos++

	stmt := &Statement{Limit: -1}

	// Column list.
	if p.peek() == "*" {
		stmt.Star = true
		p.pos++
	} else {
		for {
			col := p.next()
			if col == "" || strings.EqualFold(col, "from") {
				return nil, fmt.Errorf("expected column name, got %q", col)
			}
			stmt.Columns = append(stmt.Columns, strings.ToLower(col))
			if p.peek() != "," {
				break
			}
			p.pos++
		}
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	table := p.next()
	if table == "" {
		return nil, errors.New("expected table name after FROM")
	}
	stmt.Table = strings.ToLower(table)

	if p.peekKeyword("where") {
		p.pos++
		stmt.Where = p.parseWhere()
	}

	if p.peekKeyword("order") {
		p.pos++
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		col := p.next()
		if col == "" {
			return nil, errors.New("expected column name after ORDER BY")
		}
		ob := &OrderBy{Column: strings.ToLower(col)}
		// Direction: desc wins if it appears anywhere before LIMIT.
		for !p.atClauseBoundary() {
			if strings.EqualFold(p.peek(), "desc") {
				ob.Desc = true
			}
			p.pos++
		}
		stmt.OrderBy = ob
	}

	if p.peekKeyword("limit") {
		p.pos++
		n, err := strconv.Atoi(p.next())
		if err != nil {
			return nil, fmt.Errorf("invalid LIMIT value: %w", err)
		}
		stmt.Limit = n
	}

	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected trailing token %q", p.peek())
	}

	return stmt, nil
}

// parseWhere consumes the WHERE clause up to the next clause boundary.
// Anything that is not a single equality comparison yields an
// unsupported clause rather than an error.
func (p *parser) parseWhere() *Where {
	var col, op, val string
	if !p.atClauseBoundary() {
		col = p.next()
	}
	if !p.atClauseBoundary() {
		op = p.next()
	}
	if !p.atClauseBoundary() {
		val = p.next()
	}
	w := &Where{
		Column:   strings.ToLower(col),
		Operator: op,
		Value:    strings.TrimPrefix(val, "'"),
	}
	w.Supported = op == "=" && col != "" && val != "" && !p.isClauseKeyword(col)

	// Extra conditions (AND/OR, BETWEEN, ...) make the clause unsupported.
	for !p.atClauseBoundary() {
		w.Supported = false
		p.pos++
	}
	return w
}

func (p *parser) isClauseKeyword(tok string) bool {
	switch strings.ToLower(tok) {
	case "where", "order", "by", "limit", "and", "or", "":
		return true
	}
	return false
}
