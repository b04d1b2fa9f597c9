package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/JakWdo/envfilter/internal/tag"
)

// SyntaxError reports a malformed query expression. Offset is the byte
// position of the offending token within Input (0 for errors without a
// position, such as empty input).
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Input, e.Msg)
}

// AST types for Participle grammar

// queryExpr is the root of the grammar: OR-separated conjunctions.
// Precedence low to high: OR < AND < NOT < atom/group.
type queryExpr struct {
	Or []*andChain `parser:"@@ ( 'OR' @@ )*"`
}

// andChain is a chain of AND-separated terms.
type andChain struct {
	Terms []*termExpr `parser:"@@ ( 'AND' @@ )*"`
}

// termExpr is an optionally negated atom. NOT binds to the immediately
// following atom or group only.
type termExpr struct {
	Negated bool      `parser:"@'NOT'?"`
	Atom    *atomExpr `parser:"@@"`
}

// atomExpr is a bare tag token or a parenthesized sub-expression.
type atomExpr struct {
	Group *queryExpr `parser:"'(' @@ ')'"`
	Tag   string     `parser:"| @Tag"`
}

// Build the lexer.
// Keywords are case-sensitive uppercase and must end at a word boundary so
// that tokens like "ANDY" or "NOTable" lex as tags. Anything that is not
// whitespace, a paren or a keyword is a tag token; colon handling happens
// later in tag.Parse.
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Keyword", Pattern: `AND\b|OR\b|NOT\b`},
	{Name: "Tag", Pattern: `[^\s()]+`},
})

// Build the parser
var dslParser = participle.MustBuild[queryExpr](
	participle.Lexer(dslLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a query expression like
// "dem:age-25-34 AND (geo:warsaw OR geo:krakow)" into an expression tree.
// Empty or blank input is a syntax error; callers that want empty input to
// mean "no filtering" must guard before calling Parse.
func Parse(dsl string) (Expr, error) {
	dsl = strings.TrimSpace(dsl)
	if dsl == "" {
		return nil, &SyntaxError{Input: dsl, Msg: "empty query expression"}
	}

	ast, err := dslParser.ParseString("", dsl)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &SyntaxError{Input: dsl, Offset: perr.Position().Offset, Msg: perr.Message()}
		}
		return nil, &SyntaxError{Input: dsl, Msg: err.Error()}
	}

	return convertQuery(ast), nil
}

// convertQuery folds the AST into the domain expression tree. OR and AND
// chains fold left-associatively.
func convertQuery(q *queryExpr) Expr {
	expr := convertChain(q.Or[0])
	for _, rhs := range q.Or[1:] {
		expr = &Or{Left: expr, Right: convertChain(rhs)}
	}
	return expr
}

func convertChain(c *andChain) Expr {
	expr := convertTerm(c.Terms[0])
	for _, rhs := range c.Terms[1:] {
		expr = &And{Left: expr, Right: convertTerm(rhs)}
	}
	return expr
}

func convertTerm(t *termExpr) Expr {
	expr := convertAtom(t.Atom)
	if t.Negated {
		expr = &Not{Expr: expr}
	}
	return expr
}

func convertAtom(a *atomExpr) Expr {
	if a.Group != nil {
		return &Group{Expr: convertQuery(a.Group)}
	}
	return &TagTerm{Tag: tag.Parse(a.Tag)}
}
