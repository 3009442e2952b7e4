package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestBeginningOfDay(t *testing.T) {
	late := time.Date(2026, 8, 30, 23, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), BeginningOfDay(late))
}
