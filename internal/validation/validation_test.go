package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"(987) 654-3210", true},
		{"+98765 43210", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765abc10", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhone(tt.in))
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("jane@acme.io"))
	assert.True(t, IsEmail("  jane@acme.io "))
	assert.False(t, IsEmail("jane@acme"))
	assert.False(t, IsEmail("jane acme.io"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizePhone("+91 (987) 654-3210"))
}

type contact struct {
	Name    string `json:"name" validate:"notblank"`
	Contact string `json:"contact" validate:"required,emailorphone"`
	Min     int    `json:"min" validate:"gte=0"`
	Max     int    `json:"max" validate:"gtefield=Min"`
	Status  string `json:"status" validate:"oneof=active draft"`
}

func TestStructMessages(t *testing.T) {
	err := Struct(contact{Name: "  ", Contact: "12345", Min: 3, Max: 1, Status: "gone"})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &verrs))
	assert.Equal(t, "is required", verrs["name"])
	assert.Equal(t, "please enter a valid email address or phone number", verrs["contact"])
	assert.Equal(t, "must not be less than min", verrs["max"])
	assert.Equal(t, "must be one of: active, draft", verrs["status"])
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(contact{Name: "Jane", Contact: "jane@acme.io", Min: 1, Max: 2, Status: "draft"}))
}
