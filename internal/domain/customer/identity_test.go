//go:build unit

package customer_test

import (
	"strings"
	"testing"

	"bookline/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	t.Run("valid identity normalizes input", func(t *testing.T) {
		id, err := customer.NewIdentity("  Jordan Lee ", " Jordan.Lee@Example.COM ", " +1 555 0100 ")
		require.NoError(t, err)

		assert.Equal(t, "Jordan Lee", id.Name())
		assert.Equal(t, "jordan.lee@example.com", id.Email())
		assert.Equal(t, "+1 555 0100", id.Phone())
	})

	t.Run("empty phone allowed", func(t *testing.T) {
		id, err := customer.NewIdentity("Jordan", "jordan@example.com", "")
		require.NoError(t, err)
		assert.Empty(t, id.Phone())
	})

	tests := []struct {
		name  string
		cName string
		email string
		phone string
		errIs error
	}{
		{"blank name", "   ", "a@example.com", "", customer.ErrEmptyName},
		{"name too long", strings.Repeat("x", customer.MaxNameLength+1), "a@example.com", "", customer.ErrNameTooLong},
		{"missing at sign", "Jordan", "example.com", "", customer.ErrInvalidEmail},
		{"display name form rejected", "Jordan", "Jordan <jordan@example.com>", "", customer.ErrInvalidEmail},
		{"empty email", "Jordan", "", "", customer.ErrInvalidEmail},
		{"phone too long", "Jordan", "a@example.com", strings.Repeat("1", customer.MaxPhoneLength+1), customer.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customer.NewIdentity(tt.cName, tt.email, tt.phone)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}
}
