package dqb

import (
	"strings"
)

type (
	// JoinOperator selects the keyword of a JOIN clause.
	JoinOperator int

	// ComparisonOperator is a binary comparison between a column and a value.
	ComparisonOperator int

	// InclusionOperator tests a column against a parenthesized value list.
	InclusionOperator int

	// NullOperator tests a column for NULL and takes no value.
	NullOperator int

	// RangeOperator tests a column against two boundary values.
	RangeOperator int

	// StringOperator matches a column against a pattern.
	StringOperator int

	// LogicalOperator joins a filter to the filter before it.
	LogicalOperator int

	// OrderDirection is the direction of an ORDER BY expression.
	OrderDirection int
)

const (
	InnerJoin JoinOperator = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
	SelfJoin
)

const (
	Equal ComparisonOperator = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterOrEqual
	LessOrEqual
)

const (
	In InclusionOperator = iota
	NotIn
)

const (
	IsNull NullOperator = iota
	IsNotNull
)

const (
	Between RangeOperator = iota
	NotBetween
)

const (
	Like StringOperator = iota
	ILike
	// Concat is the string concatenation operator (||). It is not a
	// predicate, so filters reject it.
	Concat
)

const (
	And LogicalOperator = iota
	Or
	Not
)

const (
	Asc OrderDirection = iota
	Desc
)

// Token returns the SQL keyword of the join, for example "LEFT JOIN".
func (o JoinOperator) Token() (string, error) {
	switch o {
	case InnerJoin:
		return "INNER JOIN", nil
	case LeftJoin:
		return "LEFT JOIN", nil
	case RightJoin:
		return "RIGHT JOIN", nil
	case FullJoin:
		return "FULL JOIN", nil
	case CrossJoin:
		return "CROSS JOIN", nil
	case SelfJoin:
		return "SELF JOIN", nil
	}
	return "", unsupported("join", int(o))
}

func (o ComparisonOperator) Token() (string, error) {
	switch o {
	case Equal:
		return "=", nil
	case NotEqual:
		return "<>", nil
	case GreaterThan:
		return ">", nil
	case LessThan:
		return "<", nil
	case GreaterOrEqual:
		return ">=", nil
	case LessOrEqual:
		return "<=", nil
	}
	return "", unsupported("comparison", int(o))
}

func (o InclusionOperator) Token() (string, error) {
	switch o {
	case In:
		return "IN", nil
	case NotIn:
		return "NOT IN", nil
	}
	return "", unsupported("inclusion", int(o))
}

func (o NullOperator) Token() (string, error) {
	switch o {
	case IsNull:
		return "IS NULL", nil
	case IsNotNull:
		return "IS NOT NULL", nil
	}
	return "", unsupported("null", int(o))
}

func (o RangeOperator) Token() (string, error) {
	switch o {
	case Between:
		return "BETWEEN", nil
	case NotBetween:
		return "NOT BETWEEN", nil
	}
	return "", unsupported("range", int(o))
}

// Token returns the SQL keyword of a pattern match. Concat has no filter
// form and returns an UnsupportedOperatorError like any unknown value.
func (o StringOperator) Token() (string, error) {
	switch o {
	case Like:
		return "LIKE", nil
	case ILike:
		return "ILIKE", nil
	case Concat:
		return "", unsupported("string", "CONCAT")
	}
	return "", unsupported("string", int(o))
}

func (o LogicalOperator) Token() (string, error) {
	switch o {
	case And:
		return "AND", nil
	case Or:
		return "OR", nil
	case Not:
		return "NOT", nil
	}
	return "", unsupported("logical", int(o))
}

func (o OrderDirection) Token() (string, error) {
	switch o {
	case Asc:
		return "ASC", nil
	case Desc:
		return "DESC", nil
	}
	return "", unsupported("order direction", int(o))
}

// String returns the keyword of a known logical operator, or an empty
// string.
func (o LogicalOperator) String() string {
	s, _ := o.Token()
	return s
}

// Normalize operator text so "inner join", "INNER_JOIN" and " Inner  Join "
// compare equal.
func normalizeToken(in string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(in, "_", " "))), " ")
}

// ParseJoinOperator parses "INNER JOIN", "INNER_JOIN" or "inner".
func ParseJoinOperator(in string) (JoinOperator, error) {
	s := strings.TrimSuffix(normalizeToken(in), " JOIN")
	switch s {
	case "INNER":
		return InnerJoin, nil
	case "LEFT", "LEFT OUTER":
		return LeftJoin, nil
	case "RIGHT", "RIGHT OUTER":
		return RightJoin, nil
	case "FULL", "FULL OUTER":
		return FullJoin, nil
	case "CROSS":
		return CrossJoin, nil
	case "SELF":
		return SelfJoin, nil
	}
	return 0, unsupported("join", in)
}

// ParseComparisonOperator parses a comparison symbol ("=", "<>", ">=") or
// its constant name ("GREATER_OR_EQUAL").
func ParseComparisonOperator(in string) (ComparisonOperator, error) {
	switch normalizeToken(in) {
	case "=", "EQUAL":
		return Equal, nil
	case "<>", "NOT EQUAL":
		return NotEqual, nil
	case ">", "GREATER THAN":
		return GreaterThan, nil
	case "<", "LESS THAN":
		return LessThan, nil
	case ">=", "GREATER OR EQUAL":
		return GreaterOrEqual, nil
	case "<=", "LESS OR EQUAL":
		return LessOrEqual, nil
	}
	return 0, unsupported("comparison", in)
}

func ParseInclusionOperator(in string) (InclusionOperator, error) {
	switch normalizeToken(in) {
	case "IN":
		return In, nil
	case "NOT IN":
		return NotIn, nil
	}
	return 0, unsupported("inclusion", in)
}

func ParseNullOperator(in string) (NullOperator, error) {
	switch normalizeToken(in) {
	case "IS NULL":
		return IsNull, nil
	case "IS NOT NULL":
		return IsNotNull, nil
	}
	return 0, unsupported("null", in)
}

func ParseRangeOperator(in string) (RangeOperator, error) {
	switch normalizeToken(in) {
	case "BETWEEN":
		return Between, nil
	case "NOT BETWEEN":
		return NotBetween, nil
	}
	return 0, unsupported("range", in)
}

func ParseStringOperator(in string) (StringOperator, error) {
	switch normalizeToken(in) {
	case "LIKE":
		return Like, nil
	case "ILIKE":
		return ILike, nil
	case "||", "CONCAT":
		return Concat, nil
	}
	return 0, unsupported("string", in)
}

func ParseOrderDirection(in string) (OrderDirection, error) {
	switch normalizeToken(in) {
	case "ASC", "ASCENDING":
		return Asc, nil
	case "DESC", "DESCENDING":
		return Desc, nil
	}
	return 0, unsupported("order direction", in)
}
