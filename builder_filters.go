package dqb

import (
	"strings"
)

// Filters come in two flavors: FilterBy* adds a condition joined with AND,
// OrFilterBy* adds one joined with OR. The typed variants panic with an
// *UnsupportedOperatorError when the operator is not one of its category's
// constants (see Try()). The join operator of the first filter is never
// rendered.

// FilterBy adds "<column> <operator> <value>" with AND. The operator is
// used as is, without validation.
func (b *Builder) FilterBy(column, operator, value string) *Builder {
	return b.addFilter(And, column+" "+operator+" "+value)
}

// FilterByComparison adds a comparison such as "AGE > 30" with AND.
func (b *Builder) FilterByComparison(column string, op ComparisonOperator, value string) *Builder {
	return b.addFilter(And, comparison(column, op, value))
}

// FilterByInclusion adds "<column> IN (<values>)" or NOT IN with AND.
func (b *Builder) FilterByInclusion(column string, op InclusionOperator, values ...string) *Builder {
	return b.addFilter(And, inclusion(column, op, values))
}

// FilterByNull adds "<column> IS NULL" or IS NOT NULL with AND.
func (b *Builder) FilterByNull(column string, op NullOperator) *Builder {
	return b.addFilter(And, nullCheck(column, op))
}

// FilterByRange adds "<column> BETWEEN <start> AND <end>" or NOT BETWEEN
// with AND.
func (b *Builder) FilterByRange(column string, op RangeOperator, start, end string) *Builder {
	return b.addFilter(And, between(column, op, start, end))
}

// FilterByString adds "<column> LIKE <pattern>" or ILIKE with AND.
func (b *Builder) FilterByString(column string, op StringOperator, pattern string) *Builder {
	return b.addFilter(And, match(column, op, pattern))
}

// OrFilterBy is like FilterBy but joins the condition with OR.
func (b *Builder) OrFilterBy(column, operator, value string) *Builder {
	return b.addFilter(Or, column+" "+operator+" "+value)
}

// OrFilterByComparison is like FilterByComparison but joins with OR.
func (b *Builder) OrFilterByComparison(column string, op ComparisonOperator, value string) *Builder {
	return b.addFilter(Or, comparison(column, op, value))
}

// OrFilterByInclusion is like FilterByInclusion but joins with OR.
func (b *Builder) OrFilterByInclusion(column string, op InclusionOperator, values ...string) *Builder {
	return b.addFilter(Or, inclusion(column, op, values))
}

// OrFilterByNull is like FilterByNull but joins with OR.
func (b *Builder) OrFilterByNull(column string, op NullOperator) *Builder {
	return b.addFilter(Or, nullCheck(column, op))
}

// OrFilterByRange is like FilterByRange but joins with OR.
func (b *Builder) OrFilterByRange(column string, op RangeOperator, start, end string) *Builder {
	return b.addFilter(Or, between(column, op, start, end))
}

// OrFilterByString is like FilterByString but joins with OR.
func (b *Builder) OrFilterByString(column string, op StringOperator, pattern string) *Builder {
	return b.addFilter(Or, match(column, op, pattern))
}

func (b *Builder) addFilter(joinOperator LogicalOperator, condition string) *Builder {
	b.filters = append(b.filters, FilterClause{JoinOperator: joinOperator, Condition: condition})
	return b
}

func comparison(column string, op ComparisonOperator, value string) string {
	return column + " " + mustToken(op.Token()) + " " + value
}

func inclusion(column string, op InclusionOperator, values []string) string {
	return column + " " + mustToken(op.Token()) + " (" + strings.Join(values, ", ") + ")"
}

func nullCheck(column string, op NullOperator) string {
	return column + " " + mustToken(op.Token())
}

func between(column string, op RangeOperator, start, end string) string {
	return column + " " + mustToken(op.Token()) + " " + start + " AND " + end
}

func match(column string, op StringOperator, pattern string) string {
	return column + " " + mustToken(op.Token()) + " " + pattern
}
