package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders either as a parameterised SQL predicate or as an inline
// record-store filter expression.
type Condition interface {
	appendSQL(w *sqlWriter)
	appendFilter(buf *strings.Builder)
}

type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(w *sqlWriter) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" = ")
	w.bind(c.value)
}

func (c eqCondition) appendFilter(buf *strings.Builder) {
	buf.WriteString(c.column)
	buf.WriteString("=")
	buf.WriteString(filterLiteral(c.value))
}

type inCondition struct {
	column string
	values []any
}

func In[T any](column string, values []T) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inCondition{column: column, values: out}
}

func (c inCondition) appendSQL(w *sqlWriter) {
	if len(c.values) == 0 {
		w.buf.WriteString("1=0")
		return
	}
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")
}

func (c inCondition) appendFilter(buf *strings.Builder) {
	if len(c.values) == 0 {
		buf.WriteString("id=''")
		return
	}
	buf.WriteString("(")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(" || ")
		}
		buf.WriteString(c.column)
		buf.WriteString("=")
		buf.WriteString(filterLiteral(v))
	}
	buf.WriteString(")")
}

// Filter renders conditions as a record-store filter, e.g. group_id='g1' && user_id='u1'.
func Filter(conditions ...Condition) string {
	var buf strings.Builder
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" && ")
		}
		c.appendFilter(&buf)
	}
	return buf.String()
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := &sqlWriter{}
	w.buf.WriteString("SELECT ")
	w.buf.WriteString(strings.Join(b.columns, ", "))
	w.buf.WriteString(" FROM ")
	w.buf.WriteString(b.table)
	for i, c := range b.where {
		if i == 0 {
			w.buf.WriteString(" WHERE ")
		} else {
			w.buf.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
	if len(b.orderBy) > 0 {
		w.buf.WriteString(" ORDER BY ")
		w.buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.buf.WriteString(" LIMIT ")
		w.buf.WriteString(strconv.Itoa(b.limit))
	}
	return w.buf.String(), w.args, nil
}

type InsertBuilder struct {
	table    string
	columns  []string
	values   []any
	conflict []string
	update   []string
	suffix   string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// OnConflictUpdate turns the insert into an upsert on the given key,
// overwriting the listed columns from EXCLUDED.
func (b *InsertBuilder) OnConflictUpdate(key []string, columns ...string) *InsertBuilder {
	b.conflict = append([]string(nil), key...)
	b.update = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(b.values), len(b.columns))
	}

	w := &sqlWriter{}
	w.buf.WriteString("INSERT INTO ")
	w.buf.WriteString(b.table)
	w.buf.WriteString(" (")
	w.buf.WriteString(strings.Join(b.columns, ", "))
	w.buf.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")

	if len(b.conflict) > 0 {
		w.buf.WriteString(" ON CONFLICT (")
		w.buf.WriteString(strings.Join(b.conflict, ", "))
		w.buf.WriteString(")")
		if len(b.update) == 0 {
			w.buf.WriteString(" DO NOTHING")
		} else {
			w.buf.WriteString(" DO UPDATE SET ")
			for i, col := range b.update {
				if i > 0 {
					w.buf.WriteString(", ")
				}
				w.buf.WriteString(col)
				w.buf.WriteString(" = EXCLUDED.")
				w.buf.WriteString(col)
			}
		}
	}
	if b.suffix != "" {
		w.buf.WriteString(" ")
		w.buf.WriteString(b.suffix)
	}
	return w.buf.String(), w.args, nil
}

// filterLiteral escapes a value for a record-store filter. Strings are single
// quoted with backslash escaping; numbers and booleans are written bare.
func filterLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return quoteFilterString(v)
	default:
		return quoteFilterString(fmt.Sprint(v))
	}
}

func quoteFilterString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
