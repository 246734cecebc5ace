package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeClientName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Juan Perez", "Juan Perez"},
		{"symbols stripped", "Cliente #1 (VIP)", "Cliente 1 VIP"},
		{"hyphen kept", "Ana-Maria", "Ana-Maria"},
		{"surrounding space trimmed", "  Juan  ", "Juan"},
		{"nothing left", "???", "cliente"},
		{"empty", "", "cliente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeClientName(tt.in))
		})
	}
}
