package supabase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryFilters(t *testing.T) {
	q := NewQuery().
		Columns("id,name").
		Eq("status", "scheduled").
		Neq("id", "3").
		Gte("appointment_date", "2026-08-30T00:00:00Z").
		Lt("appointment_date", "2026-08-31T00:00:00Z").
		Order("appointment_date", true).
		Limit(10)

	enc := q.Encode()
	assert.Contains(t, enc, "select=id%2Cname")
	assert.Contains(t, enc, "status=eq.scheduled")
	assert.Contains(t, enc, "id=neq.3")
	assert.Contains(t, enc, "order=appointment_date.asc")
	assert.Contains(t, enc, "limit=10")
	assert.True(t, q.HasFilter())
}

func TestQueryNotIn(t *testing.T) {
	q := NewQuery().NotIn("id", []int64{1, 2, 3})
	assert.Contains(t, q.Encode(), "not.in.%281%2C2%2C3%29")
	assert.True(t, q.HasFilter())
}

func TestHasFilterIgnoresShapeKeys(t *testing.T) {
	q := NewQuery().Columns("*").Order("id", false).Limit(5)
	assert.False(t, q.HasFilter())

	var nilQuery *Query
	assert.False(t, nilQuery.HasFilter())
	assert.Equal(t, "", nilQuery.Encode())
}
