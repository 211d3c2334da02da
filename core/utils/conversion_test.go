package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"Float", float64(12.5), 12.5, true},
		{"Int", 42, 42, true},
		{"Int64", int64(7), 7, true},
		{"JSONNumber", json.Number("1e3"), 1000, true},
		{"String", " 125 ", 125, true},
		{"Bytes", []byte("3"), 3, true},
		{"BadString", "many", 0, false},
		{"NaN", math.NaN(), 0, false},
		{"Inf", math.Inf(1), 0, false},
		{"Nil", nil, 0, false},
		{"Bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "Tokyo", ToString("Tokyo"))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString(map[string]any{}))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	if p := StringPtr(" Asia "); assert.NotNil(t, p) {
		assert.Equal(t, "Asia", *p)
	}
}
