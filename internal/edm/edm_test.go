package edm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3.4", "3.4"},
		{"-3.4", "-3.4"},
		{"3.4e1", "34"},
		{"-3.4e-1", "-0.34"},
		{"0.1000000000000000000000001", "0.1000000000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDecimal(tt.input)
			require.NoError(t, err)
			assert.True(t, d.Equal(decimal.RequireFromString(tt.expected)), "got %s", d)
		})
	}

	_, err := ParseDecimal("3.4.5")
	assert.Error(t, err)
	assert.False(t, IsDecimal("abc"))
	assert.True(t, IsDecimal("1e10"))
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2012-09-27T21:12:59")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2012, 9, 27, 21, 12, 59, 0, time.UTC), got)

	got, err = ParseDateTime("2012-09-27T21:12:59.125")
	require.NoError(t, err)
	assert.Equal(t, 125*int(time.Millisecond), got.Nanosecond())

	got, err = ParseDateTime("2012-09-27T21:12")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Minute())

	_, err = ParseDateTime("yesterday")
	assert.Error(t, err)
}

func TestParseDateTimeOffset(t *testing.T) {
	got, err := ParseDateTimeOffset("2016-01-01T01:01:01Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2016, 1, 1, 1, 1, 1, 0, time.UTC)))

	got, err = ParseDateTimeOffset("2016-01-01T01:01:01+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2015, 12, 31, 23, 1, 1, 0, time.UTC)))

	_, err = ParseDateTimeOffset("2016-01-01T01:01:01")
	assert.Error(t, err, "offset is required")
}

func TestFormatRoundTrip(t *testing.T) {
	ts := time.Date(2012, 9, 27, 21, 12, 59, 500000000, time.UTC)

	back, err := ParseDateTime(FormatDateTime(ts))
	require.NoError(t, err)
	assert.True(t, back.Equal(ts))

	back, err = ParseDateTimeOffset(FormatDateTimeOffset(ts))
	require.NoError(t, err)
	assert.True(t, back.Equal(ts))
}

func TestParseGuid(t *testing.T) {
	id, err := ParseGuid("01234567-89ab-cdef-0123-456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef"), id)

	_, err = ParseGuid("{01234567-89ab-cdef-0123-456789abcdef}")
	assert.Error(t, err)
	_, err = ParseGuid("0123456789abcdef0123456789abcdef")
	assert.Error(t, err)
}

func TestFromGoValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected TypeName
	}{
		{"nil", nil, TypeNull},
		{"string", "x", TypeString},
		{"bool", true, TypeBoolean},
		{"int", 3, TypeInt64},
		{"int64", int64(3), TypeInt64},
		{"float", 1.5, TypeDecimal},
		{"decimal", decimal.NewFromInt(1), TypeDecimal},
		{"time", time.Now(), TypeDateTimeOffset},
		{"uuid", uuid.New(), TypeGuid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGoValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := FromGoValue([]string{"a"})
	assert.Error(t, err)
}
