package validator

import (
	"testing"

	"anoa.com/freelancehub/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	for _, phone := range []string{"44076356", "(+222)44076356", "+22244076356", "(33)612345678"} {
		assert.True(t, IsValidPhone(phone), phone)
	}
	for _, phone := range []string{"", "1234", "+44-0763-56", "phone12345", "+(222)44076356"} {
		assert.False(t, IsValidPhone(phone), phone)
	}
}

type signup struct {
	Email string `binding:"required,email"`
	Phone string `binding:"required,phone"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(signup{Email: "a@b.io", Phone: "+22244076356"}))

	err := Validate(signup{Email: "nope", Phone: "12"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Email must be a valid email address")
	assert.Contains(t, err.Error(), "Phone number must look like")
}
