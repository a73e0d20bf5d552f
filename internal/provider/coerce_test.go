package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"12", 12},
		{"12.0", 12},
		{"12.9", 12},
		{"-3.5", -3},
		{" 7 ", 7},
		{"NaN", 0},
		{"inf", 0},
		{"1e300", 0},
		{"-1e300", 0},
		{"9223372036854775808", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeInt(tt.in))
		})
	}
}

func TestSafeFloat(t *testing.T) {
	assert.Nil(t, SafeFloat(""))
	assert.Nil(t, SafeFloat("abc"))
	assert.Nil(t, SafeFloat("NaN"))

	f := SafeFloat("0.523")
	require.NotNil(t, f)
	assert.InDelta(t, 0.523, *f, 1e-9)
}

func TestSafeFloatOr(t *testing.T) {
	assert.Equal(t, 0.0, SafeFloatOr("", 0))
	assert.Equal(t, 1.5, SafeFloatOr("garbage", 1.5))
	assert.Equal(t, 12.25, SafeFloatOr("12.25", 0))
}

func TestParseDollars(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"$1,500,000", 1_500_000},
		{"$1.5M", 1_500_000},
		{"$0.775M", 775_000},
		{"$750K", 750_000},
		{"925000", 925_000},
		{"$ 2,000,000 ", 2_000_000},
		{"", 0},
		{"-", 0},
		{"N/A", 0},
		{"$1e30M", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDollars(tt.in))
		})
	}
}

func TestIntValueOutOfRange(t *testing.T) {
	assert.Equal(t, 0, IntValue(1e300))
	assert.Equal(t, 7, IntValue("7.9"))
	assert.Nil(t, IntPtr(-1e300))
	require.NotNil(t, IntPtr(42.0))
	assert.Equal(t, 42, *IntPtr(42.0))
}

func TestExtractValue(t *testing.T) {
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"plain": 12,
		"str": "0.915",
		"localized": {"default": 3},
		"empty": {},
		"null": null,
		"bool": true
	}`), &decoded))

	tests := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"plain", 12, true},
		{"str", 0.915, true},
		{"localized", 3, true},
		{"empty", 0, false},
		{"null", 0, false},
		{"bool", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ExtractValue(decoded[tt.key])
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	assert.Equal(t, 12, IntValue(decoded["plain"]))
	assert.Nil(t, IntPtr(decoded["missing"]))
	assert.Nil(t, FloatPtr(decoded["null"]))
}
