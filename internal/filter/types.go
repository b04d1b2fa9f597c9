// Package filter provides query DSL parsing and evaluation.
package filter

import (
	"github.com/JakWdo/envfilter/internal/tag"
)

// Expr is a node of a parsed query expression tree.
type Expr interface {
	// Eval reports whether the expression matches the given tag set.
	Eval(tags tag.Set) bool
	// String returns a canonical, fully parenthesized rendering.
	String() string
}

// TagTerm is a leaf matching a single tag by exact (facet, key) equality.
type TagTerm struct {
	Tag tag.Tag
}

// And is the conjunction of two expressions.
type And struct {
	Left  Expr
	Right Expr
}

// Or is the disjunction of two expressions.
type Or struct {
	Left  Expr
	Right Expr
}

// Not negates an expression.
type Not struct {
	Expr Expr
}

// Group is a parenthesized sub-expression. It only records source-level
// grouping; evaluation is that of the inner expression.
type Group struct {
	Expr Expr
}

func (t *TagTerm) String() string { return t.Tag.String() }
func (a *And) String() string     { return "(" + a.Left.String() + " AND " + a.Right.String() + ")" }
func (o *Or) String() string      { return "(" + o.Left.String() + " OR " + o.Right.String() + ")" }
func (n *Not) String() string     { return "(NOT " + n.Expr.String() + ")" }
func (g *Group) String() string   { return g.Expr.String() }
