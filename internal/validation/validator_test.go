package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	v := NewValidator()

	type req struct {
		Email string `json:"email" validate:"required,email"`
	}

	assert.Error(t, v.Validate(req{}))
	assert.NoError(t, v.Validate(req{Email: "user@acme.test"}))
}

func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	type req struct {
		Email string `validate:"required,email"`
	}

	tests := []struct {
		email string
		valid bool
	}{
		{"user@acme.test", true},
		{"first.last@sub.acme.test", true},
		{"no-at-sign", false},
		{"spaces in@acme.test", false},
		{"user@nodot", false},
	}

	for _, tt := range tests {
		err := v.Validate(req{Email: tt.email})
		if tt.valid {
			assert.NoError(t, err, tt.email)
		} else {
			assert.Error(t, err, tt.email)
		}
	}
}

func TestValidateHexColor(t *testing.T) {
	v := NewValidator()

	type req struct {
		Color string `validate:"hexcolor"`
	}

	assert.NoError(t, v.Validate(req{Color: "#00C853"}))
	assert.NoError(t, v.Validate(req{Color: "#ffffff"}))
	assert.Error(t, v.Validate(req{Color: "00C853"}))
	assert.Error(t, v.Validate(req{Color: "#00C"}))
	assert.Error(t, v.Validate(req{Color: "#GGGGGG"}))

	// hexcolor without required: empty is allowed
	assert.NoError(t, v.Validate(req{}))
}

func TestValidateSlug(t *testing.T) {
	v := NewValidator()

	type req struct {
		Name string `validate:"slug"`
	}

	assert.NoError(t, v.Validate(req{Name: "acme-pro"}))
	assert.Error(t, v.Validate(req{Name: "Acme Pro"}))
	assert.NoError(t, v.Validate(req{}))
}

func TestValidateRole(t *testing.T) {
	v := NewValidator()

	type req struct {
		Role string `validate:"required,role"`
	}

	assert.NoError(t, v.Validate(req{Role: "brand-retailer"}))
	assert.NoError(t, v.Validate(req{Role: "system-admin"}))
	assert.Error(t, v.Validate(req{Role: "overlord"}))
}

func TestValidateLengthBounds(t *testing.T) {
	v := NewValidator()

	type req struct {
		Password string `validate:"required,min=8"`
		Name     string `validate:"max=10"`
	}

	assert.NoError(t, v.Validate(req{Password: "password1"}))
	assert.Error(t, v.Validate(req{Password: "short"}))
	assert.Error(t, v.Validate(req{Password: "password1", Name: "far-too-long-name"}))
}

func TestValidatePointerInput(t *testing.T) {
	v := NewValidator()

	type req struct {
		Email string `validate:"required,email"`
	}

	assert.NoError(t, v.Validate(&req{Email: "user@acme.test"}))
	assert.Error(t, v.Validate("not a struct"))
}
