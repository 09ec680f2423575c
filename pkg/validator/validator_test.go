package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stayRequest struct {
	CheckIn string `json:"check_in" validate:"required,datetime=2006-01-02"`
	Status  string `json:"status" validate:"omitempty,oneof=approved rejected"`
	Email   string `json:"guest_email" validate:"required,email"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&stayRequest{CheckIn: "01/06/2024", Status: "maybe", Email: "nope"})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "check_in must be a date in YYYY-MM-DD format", msgs["check_in"])
	assert.Equal(t, "status must be one of: approved rejected", msgs["status"])
	assert.Equal(t, "guest_email must be a valid email address", msgs["guest_email"])
}

func TestValidate_Passes(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&stayRequest{CheckIn: "2024-06-01", Email: "ada@example.com"}))
}
