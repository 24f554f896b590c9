package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern  = regexp.MustCompile(`^[0-9]{8}$`)
	webURLPattern = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,})?(:\d+)?(/.*)?$`)
	validate      = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages match the request payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	})
	return v
}

// IsPhoneNumber accepts exactly eight digits.
func IsPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// IsWebURL accepts absolute http and https URLs.
func IsWebURL(s string) bool {
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return webURLPattern.MatchString(s)
}

// ValidateStruct runs the validate tags of s and converts failures into a
// *ValidationError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, e.g.
// "CreateEventRequest.tourists[1].email" becomes "tourists[1].email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "Please enter a valid email address."
	case "phone":
		return "Please enter a valid 8-digit phone number."
	case "weburl":
		return "Please enter a valid URL starting with http:// or https://."
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
