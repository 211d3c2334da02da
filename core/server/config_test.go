package server_test

import (
	"testing"
	"time"

	"country-cache/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidPort(t *testing.T) {
	tests := []struct {
		name string
		port string
		want bool
	}{
		{"Default", "8080", true},
		{"Low", "1", true},
		{"Zero", "0", false},
		{"TooHigh", "70000", false},
		{"NotNumeric", "http", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.IsValidPort())
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	c := server.Config{Port: "5000", ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 30}
	assert.Equal(t, ":5000", c.Address())
	assert.Equal(t, 5*time.Second, c.ReadTimeout())
	assert.Equal(t, 30*time.Second, c.WriteTimeout())
}
