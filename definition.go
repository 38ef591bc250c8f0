package dqb

type (
	// Definition describes a query declaratively so it can be read from
	// JSON or YAML:
	//
	//	table: employees
	//	columns: [ID, NAME]
	//	joins:
	//	  - type: inner
	//	    table: DEPARTMENTS
	//	    on: EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID
	//	filters:
	//	  - column: AGE
	//	    operator: ">"
	//	    value: "30"
	//	  - or: true
	//	    column: CITY
	//	    operator: IS NULL
	//	order_by:
	//	  - column: NAME
	//	    direction: asc
	//	limit: 10
	Definition struct {
		Table   string             `json:"table" yaml:"table"`
		Columns []string           `json:"columns,omitempty" yaml:"columns,omitempty"`
		Joins   []JoinDefinition   `json:"joins,omitempty" yaml:"joins,omitempty"`
		Filters []FilterDefinition `json:"filters,omitempty" yaml:"filters,omitempty"`
		GroupBy []string           `json:"group_by,omitempty" yaml:"group_by,omitempty"`
		OrderBy []OrderDefinition  `json:"order_by,omitempty" yaml:"order_by,omitempty"`
		Limit   *int               `json:"limit,omitempty" yaml:"limit,omitempty"`
	}

	JoinDefinition struct {
		Type  string `json:"type" yaml:"type"`
		Table string `json:"table" yaml:"table"`
		On    string `json:"on" yaml:"on"`
	}

	// FilterDefinition is one WHERE condition. Operator is matched against
	// the comparison, inclusion, null, range and string operators in that
	// order; text matching none of them is used verbatim. Values is used by
	// IN and NOT IN, Start and End by BETWEEN and NOT BETWEEN, Value by
	// everything else.
	FilterDefinition struct {
		Or       bool     `json:"or,omitempty" yaml:"or,omitempty"`
		Column   string   `json:"column" yaml:"column"`
		Operator string   `json:"operator" yaml:"operator"`
		Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
		Values   []string `json:"values,omitempty" yaml:"values,omitempty"`
		Start    string   `json:"start,omitempty" yaml:"start,omitempty"`
		End      string   `json:"end,omitempty" yaml:"end,omitempty"`
	}

	// OrderDefinition is one ORDER BY expression. An empty Direction adds
	// Column as is.
	OrderDefinition struct {
		Column    string `json:"column" yaml:"column"`
		Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	}
)

// Apply adds every clause of the definition to the builder, in the order
// table, columns, joins, filters, group by, order by, limit. An
// *UnsupportedOperatorError is returned for an unknown join type, order
// direction or the CONCAT string operator; clauses applied before it are
// kept.
func (d *Definition) Apply(b *Builder) error {
	return b.Try(func(b *Builder) {
		if d.Table != "" {
			b.FromTable(d.Table)
		}
		b.Columns(d.Columns...)
		for _, join := range d.Joins {
			kind, err := ParseJoinOperator(join.Type)
			must(err)
			b.Join(kind, join.Table, join.On)
		}
		for _, filter := range d.Filters {
			filter.apply(b)
		}
		b.GroupBy(d.GroupBy...)
		for _, order := range d.OrderBy {
			if order.Direction == "" {
				b.OrderBy(order.Column)
				continue
			}
			direction, err := ParseOrderDirection(order.Direction)
			must(err)
			b.OrderByDirection(order.Column, direction)
		}
		if d.Limit != nil {
			b.SetLimit(*d.Limit)
		}
	})
}

func (f FilterDefinition) apply(b *Builder) {
	if op, err := ParseComparisonOperator(f.Operator); err == nil {
		if f.Or {
			b.OrFilterByComparison(f.Column, op, f.Value)
		} else {
			b.FilterByComparison(f.Column, op, f.Value)
		}
		return
	}
	if op, err := ParseInclusionOperator(f.Operator); err == nil {
		if f.Or {
			b.OrFilterByInclusion(f.Column, op, f.Values...)
		} else {
			b.FilterByInclusion(f.Column, op, f.Values...)
		}
		return
	}
	if op, err := ParseNullOperator(f.Operator); err == nil {
		if f.Or {
			b.OrFilterByNull(f.Column, op)
		} else {
			b.FilterByNull(f.Column, op)
		}
		return
	}
	if op, err := ParseRangeOperator(f.Operator); err == nil {
		if f.Or {
			b.OrFilterByRange(f.Column, op, f.Start, f.End)
		} else {
			b.FilterByRange(f.Column, op, f.Start, f.End)
		}
		return
	}
	if op, err := ParseStringOperator(f.Operator); err == nil {
		if f.Or {
			b.OrFilterByString(f.Column, op, f.Value)
		} else {
			b.FilterByString(f.Column, op, f.Value)
		}
		return
	}
	if f.Or {
		b.OrFilterBy(f.Column, f.Operator, f.Value)
	} else {
		b.FilterBy(f.Column, f.Operator, f.Value)
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
