package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	OTP     string `json:"otp" validate:"required,otp"`
	Aadhaar string `json:"aadhaar" validate:"omitempty,aadhaar"`
	Name    string `json:"name" validate:"required,min=2"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterOn(v))
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"valid", sample{OTP: "012345", Aadhaar: "123456789012", Name: "Asha"}, true},
		{"aadhaar optional", sample{OTP: "999999", Name: "Asha"}, true},
		{"otp too short", sample{OTP: "12345", Name: "Asha"}, false},
		{"otp letters", sample{OTP: "12a456", Name: "Asha"}, false},
		{"aadhaar eleven digits", sample{OTP: "123456", Aadhaar: "12345678901", Name: "Asha"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	v := newValidator(t)

	msgs, ok := Messages(v.Struct(sample{OTP: "12", Name: "A"}))
	require.True(t, ok)
	assert.Equal(t, []string{
		"otp must be exactly 6 digits",
		"name must be at least 2",
	}, msgs)

	_, ok = Messages(assert.AnError)
	assert.False(t, ok)
}
