package engine

import (
	"context"
	"fmt"
	"strings"
)

// Relation is a lazily-built SQL query, mirroring the engine's native
// relation-API builders (table/filter/project/join/aggregate/create/
// create_view). Nothing executes until Create, CreateView, or SQL is
// called — each intermediate method returns a new Relation so a pipeline
// reads left to right: engine.Table(x).Filter(...).Project(...).Create(y).
type Relation struct {
	eng        *Engine
	from       string // identifier or parenthesized sub-select
	filters    []string
	projection string
	joins      []string
	groupBy    string
	orderBy    string
	limit      int
}

// Table starts a relation over a base table or view. name must pass
// ValidateIdentifier.
func (e *Engine) Table(name string) *Relation {
	return &Relation{eng: e, from: name, projection: "*"}
}

// Filter appends a WHERE predicate; multiple calls AND together.
func (r *Relation) Filter(predicate string) *Relation {
	next := r.clone()
	next.filters = append(next.filters, predicate)
	return next
}

// Project replaces the SELECT list. columns is inserted verbatim, so
// callers build it from trusted (non-request-sourced) strings.
func (r *Relation) Project(columns string) *Relation {
	next := r.clone()
	next.projection = columns
	return next
}

// Join appends a join clause, e.g. "LEFT JOIN silver_locations AS l ON ...".
func (r *Relation) Join(clause string) *Relation {
	next := r.clone()
	next.joins = append(next.joins, clause)
	return next
}

// Aggregate sets the GROUP BY clause.
func (r *Relation) Aggregate(groupBy string) *Relation {
	next := r.clone()
	next.groupBy = groupBy
	return next
}

// OrderBy sets the ORDER BY clause.
func (r *Relation) OrderBy(orderBy string) *Relation {
	next := r.clone()
	next.orderBy = orderBy
	return next
}

// Limit caps the row count. n <= 0 means no limit.
func (r *Relation) Limit(n int) *Relation {
	next := r.clone()
	next.limit = n
	return next
}

// SQL renders the relation to a single SELECT statement.
func (r *Relation) SQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", r.projection, r.from)
	for _, j := range r.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(r.filters) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(r.filters, " AND "))
	}
	if r.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(r.groupBy)
	}
	if r.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(r.orderBy)
	}
	if r.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", r.limit)
	}
	return b.String()
}

// Create materializes the relation as a table, dropping any existing table
// of the same name first.
func (r *Relation) Create(ctx context.Context, tableName string) error {
	return r.eng.CreateTableAs(ctx, tableName, r.SQL())
}

// CreateView materializes the relation as a view (no data duplication),
// used by Gold enrichers.
func (r *Relation) CreateView(ctx context.Context, viewName string) error {
	return r.eng.CreateViewAs(ctx, viewName, r.SQL())
}

func (r *Relation) clone() *Relation {
	next := *r
	next.filters = append([]string(nil), r.filters...)
	next.joins = append([]string(nil), r.joins...)
	return &next
}
