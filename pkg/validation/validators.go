// Package validation registers the custom binding tags and turns validator
// failures into client facing messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	otpRegex     = regexp.MustCompile(constants.OTPPattern)
	aadhaarRegex = regexp.MustCompile(constants.AadhaarPattern)

	registerOnce sync.Once
	registerErr  error
)

// Register installs the otp and aadhaar tags and JSON field naming on gin's validator.
// It is safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on v
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("otp", matches(otpRegex)); err != nil {
		return err
	}
	return v.RegisterValidation("aadhaar", matches(aadhaarRegex))
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Messages translates a binding error. ok is false when err is not a validation failure,
// for example malformed JSON.
func Messages(err error) ([]string, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if custom := CustomMessage(e.Field()); custom != nil {
			if msg, ok := custom[e.Tag()]; ok {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return messages, true
}
