package supabase

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds a PostgREST query string: column filters, embedded column
// selection, ordering and limits.
type Query struct {
	params url.Values
}

func NewQuery() *Query {
	return &Query{params: url.Values{}}
}

// Columns sets the select list, including embedded sub-records, e.g.
// "*, clients(id,first_name,last_name)".
func (q *Query) Columns(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *Query) EqInt(column string, value int64) *Query {
	return q.Eq(column, strconv.FormatInt(value, 10))
}

func (q *Query) Neq(column, value string) *Query {
	q.params.Add(column, "neq."+value)
	return q
}

func (q *Query) Gte(column, value string) *Query {
	q.params.Add(column, "gte."+value)
	return q
}

func (q *Query) Lt(column, value string) *Query {
	q.params.Add(column, "lt."+value)
	return q
}

// NotIn excludes rows whose column matches any of the given ids.
func (q *Query) NotIn(column string, ids []int64) *Query {
	vals := make([]string, len(ids))
	for i, id := range ids {
		vals[i] = strconv.FormatInt(id, 10)
	}
	q.params.Add(column, "not.in.("+strings.Join(vals, ",")+")")
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Add("order", column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// HasFilter reports whether at least one row filter is set. Updates and
// deletes refuse to run without one.
func (q *Query) HasFilter() bool {
	if q == nil {
		return false
	}
	for key := range q.params {
		switch key {
		case "select", "order", "limit":
		default:
			return true
		}
	}
	return false
}

func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.params.Encode()
}
