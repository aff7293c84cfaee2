package common

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// PasswordSpecials lists the punctuation accepted (and one of which is required) in passwords.
const PasswordSpecials = "@$!%*?&#^-_"

// StructValidator is the request validator shared by gin binding and the
// service layer. It reads `binding` tags and reports JSON field names.
type StructValidator struct {
	once     sync.Once
	validate *validator.Validate
}

// DefaultValidator is installed as gin's binding.Validator by the server.
var DefaultValidator = &StructValidator{}

// ValidateStruct implements gin's binding.StructValidator.
func (v *StructValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		return v.engine().Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine implements gin's binding.StructValidator.
func (v *StructValidator) Engine() any {
	return v.engine()
}

func (v *StructValidator) engine() *validator.Validate {
	v.once.Do(func() {
		validate := validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		_ = validate.RegisterValidation("password", validatePassword)
		v.validate = validate
	})
	return v.validate
}

// Validate runs the shared validator over obj and returns a 422 APIError
// describing every failing field, or nil.
func Validate(obj any) error {
	if err := DefaultValidator.ValidateStruct(obj); err != nil {
		return NewBindingAPIError(err)
	}
	return nil
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether pw has at least 8 characters drawn from
// letters, digits and PasswordSpecials, with at least one of each class.
func IsStrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var letter, digit, special bool
	for _, r := range pw {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return letter && digit && special
}
