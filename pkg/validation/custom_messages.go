package validation

// customValidationMessages overrides the default text for a field and tag.
// Fields are keyed by their JSON name.
var customValidationMessages = map[string]map[string]string{
	"email": {
		"required": "email is required",
		"email":    "email is not a valid address",
	},
	"phone": {
		"required": "phone is required",
		"min":      "phone must have at least 10 digits",
		"max":      "phone must have at most 15 digits",
	},
	"password": {
		"required": "password is required",
		"min":      "password must be at least 8 characters",
	},
	"new_password": {
		"required": "new password is required",
		"min":      "new password must be at least 8 characters",
	},
	"otp": {
		"required": "otp is required",
		"otp":      "otp must be exactly 6 digits",
	},
	"aadhaar": {
		"aadhaar": "aadhaar must be exactly 12 digits",
	},
	"is_active": {
		"required": "is_active must be true or false",
	},
}

// CustomMessage returns the overrides of field, nil when it has none
func CustomMessage(field string) map[string]string {
	return customValidationMessages[field]
}
