package httpx

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// passwordSymbols is the set of symbols a strong password must contain one of.
const passwordSymbols = "!@#$%^&*"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Validator returns the shared validator. Field names in errors use the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
			return PasswordFits(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return ValidUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// StrongPassword reports whether p has 8+ characters including an upper-case
// letter, a lower-case letter, a digit and one of !@#$%^&*.
func StrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, c := range p {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, c):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// PasswordFits reports whether p is short enough to be hashed.
func PasswordFits(p string) bool {
	return len(p) <= MaxPasswordBytes
}

// ValidUsername reports whether u consists of letters, digits and @.+-_ only.
func ValidUsername(u string) bool {
	if u == "" {
		return false
	}
	for _, c := range u {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || strings.ContainsRune("@.+-_", c) {
			continue
		}
		return false
	}
	return true
}

// ValidateStruct validates v and returns field -> messages, or nil when v is valid.
func ValidateStruct(v any) map[string][]string {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}

	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "gt":
		return "Ensure this value is greater than " + fe.Param() + "."
	case "username":
		return "Enter a valid username."
	case "passwordbytes":
		return "Ensure this field has no more than " + strconv.Itoa(MaxPasswordBytes) + " bytes."
	case "strongpassword":
		return "Password must be 8+ chars incl. upper, lower, digit & symbol."
	default:
		return "Invalid value (" + fe.Tag() + ")."
	}
}
