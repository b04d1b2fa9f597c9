package filter

import (
	"github.com/JakWdo/envfilter/internal/tag"
)

// Eval reports whether the resource's tag set contains the term's tag.
// Comparison is exact string equality on the (facet, key) pair; there is no
// wildcard or partial matching, and unknown facets match like any other.
func (t *TagTerm) Eval(tags tag.Set) bool {
	return tags.Has(t.Tag)
}

// Eval evaluates both sides with short-circuiting. Evaluation has no side
// effects, so order is unobservable.
func (a *And) Eval(tags tag.Set) bool {
	return a.Left.Eval(tags) && a.Right.Eval(tags)
}

// Eval evaluates both sides with short-circuiting.
func (o *Or) Eval(tags tag.Set) bool {
	return o.Left.Eval(tags) || o.Right.Eval(tags)
}

// Eval negates the inner expression. A tag absent from the set satisfies
// the negation of its term.
func (n *Not) Eval(tags tag.Set) bool {
	return !n.Expr.Eval(tags)
}

// Eval evaluates the inner expression; grouping affects parsing only.
func (g *Group) Eval(tags tag.Set) bool {
	return g.Expr.Eval(tags)
}

// Match parses and evaluates a query against a single tag set.
// Convenience for one-shot callers; repeated evaluation should Parse once.
func Match(dsl string, tags tag.Set) (bool, error) {
	expr, err := Parse(dsl)
	if err != nil {
		return false, err
	}
	return expr.Eval(tags), nil
}
