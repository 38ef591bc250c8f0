package dqb

import (
	"strings"

	"github.com/gopsql/logger"
)

type (
	// TableMetadata maps upper-case table names to their column names. It
	// is the validation source of a Builder: only tables present as keys
	// can be rendered. See catalog.Schemas.TableMetadata() for building one
	// from a live database.
	TableMetadata map[string][]string

	// FilterClause is one WHERE condition and the logical operator that
	// joins it to the condition before it. The operator of the first
	// clause is never rendered.
	FilterClause struct {
		JoinOperator LogicalOperator
		Condition    string
	}

	// Builder accumulates the clauses of a SELECT statement. Every method
	// appends to the builder and returns it, so calls can be chained:
	//
	//	sql, err := dqb.New(tables).
	//		FromTable("employees").
	//		Columns("ID", "NAME").
	//		FilterByComparison("AGE", dqb.GreaterThan, "30").
	//		GenerateSQL()
	//
	// Values are inserted into the statement verbatim; quoting and escaping
	// are the caller's responsibility. A Builder is not safe for concurrent
	// use.
	Builder struct {
		tables   TableMetadata
		logger   logger.Logger
		table    string
		columns  []string
		joins    []string
		filters  []FilterClause
		groups   []string
		orders   []string
		limit    int
		hasLimit bool
	}
)

// Initialize a Builder with table metadata. For available options, see
// SetOptions().
func New(tables TableMetadata, options ...interface{}) *Builder {
	return NewSetup(options...).Setup(tables)
}

// Initialize a Builder without table metadata. Setup() must be called
// before rendering, otherwise GenerateSQL() returns ErrNotConfigured.
func NewSetup(options ...interface{}) *Builder {
	b := &Builder{}
	b.SetOptions(options...)
	return b
}

// Setup supplies the table metadata. Table names are upper-cased so that
// lookups are case-insensitive. Metadata can be supplied only once; later
// calls keep the existing metadata.
func (b *Builder) Setup(tables TableMetadata) *Builder {
	if tables == nil {
		return b
	}
	if b.tables != nil {
		b.log("dqb: table metadata already set, ignoring Setup")
		return b
	}
	b.tables = make(TableMetadata, len(tables))
	for name, columns := range tables {
		key := strings.ToUpper(name)
		b.tables[key] = append(b.tables[key], columns...)
	}
	return b
}

// SetOptions sets the logger (see SetLogger()) and/or table metadata (see
// Setup()). TableMetadata and plain map[string][]string are both accepted.
func (b *Builder) SetOptions(options ...interface{}) *Builder {
	for _, option := range options {
		switch o := option.(type) {
		case logger.Logger:
			b.SetLogger(o)
		case TableMetadata:
			b.Setup(o)
		case map[string][]string:
			b.Setup(TableMetadata(o))
		}
	}
	return b
}

// Set the logger for the Builder. By default, no logger is used. When set,
// every rendered statement is logged at debug level.
func (b *Builder) SetLogger(logger logger.Logger) *Builder {
	b.logger = logger
	return b
}

// Clone returns a deep copy of the builder. Metadata is shared since it is
// never modified after Setup().
func (b *Builder) Clone() *Builder {
	return &Builder{
		tables:   b.tables,
		logger:   b.logger,
		table:    b.table,
		columns:  append([]string(nil), b.columns...),
		joins:    append([]string(nil), b.joins...),
		filters:  append([]FilterClause(nil), b.filters...),
		groups:   append([]string(nil), b.groups...),
		orders:   append([]string(nil), b.orders...),
		limit:    b.limit,
		hasLimit: b.hasLimit,
	}
}

// Table returns the upper-cased table name set by FromTable().
func (b *Builder) Table() string {
	return b.table
}

// Limit returns the limit and whether SetLimit() was called.
func (b *Builder) Limit() (int, bool) {
	return b.limit, b.hasLimit
}

// Filters returns a copy of the accumulated filter clauses.
func (b *Builder) Filters() []FilterClause {
	return append([]FilterClause(nil), b.filters...)
}

// FromTable sets the table to select from. The name is upper-cased; whether
// it exists is checked when rendering.
func (b *Builder) FromTable(name string) *Builder {
	b.table = strings.ToUpper(name)
	return b
}

// Add columns or expressions to the SELECT list. Without any columns, "*"
// is selected.
func (b *Builder) Columns(names ...string) *Builder {
	b.columns = append(b.columns, names...)
	return b
}

// Join adds "<KIND> JOIN <table> ON <condition>". It panics with an
// *UnsupportedOperatorError if kind is not one of the JoinOperator
// constants; use Try() to get an error instead.
func (b *Builder) Join(kind JoinOperator, table, condition string) *Builder {
	keyword := mustToken(kind.Token())
	b.joins = append(b.joins, keyword+" "+table+" ON "+condition)
	return b
}

// Adds expressions to GROUP BY.
func (b *Builder) GroupBy(names ...string) *Builder {
	b.groups = append(b.groups, names...)
	return b
}

// Adds expressions to ORDER BY, for example OrderBy("NAME", "AGE DESC").
func (b *Builder) OrderBy(names ...string) *Builder {
	b.orders = append(b.orders, names...)
	return b
}

// Adds "<name> ASC" or "<name> DESC" to ORDER BY.
func (b *Builder) OrderByDirection(name string, direction OrderDirection) *Builder {
	b.orders = append(b.orders, name+" "+mustToken(direction.Token()))
	return b
}

// SetLimit sets LIMIT. A limit of 0 is omitted by GenerateSQL() but
// rendered as "LIMIT 0" by GenerateFormattedSQL().
func (b *Builder) SetLimit(n int) *Builder {
	b.limit = n
	b.hasLimit = true
	return b
}

// Perform operations on the chain.
func (b *Builder) Tap(funcs ...func(*Builder) *Builder) *Builder {
	for i := range funcs {
		b = funcs[i](b)
	}
	return b
}

// Try calls fn with the builder and returns the *UnsupportedOperatorError
// raised by any chained call inside it. Calls made before the failing one
// are kept. Other panics are not recovered.
//
//	err := b.Try(func(b *dqb.Builder) {
//		b.Join(kind, "DEPARTMENTS", "EMPLOYEES.DEPARTMENT_ID = DEPARTMENTS.ID")
//	})
func (b *Builder) Try(fn func(*Builder)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if uerr, ok := r.(*UnsupportedOperatorError); ok {
				err = uerr
				return
			}
			panic(r)
		}
	}()
	fn(b)
	return
}

func (b *Builder) log(args ...interface{}) {
	if b.logger == nil {
		return
	}
	b.logger.Debug(args...)
}

func mustToken(token string, err error) string {
	if err != nil {
		panic(err)
	}
	return token
}
