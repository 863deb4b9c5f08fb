package validator

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule is a single check on a field.
type Rule struct {
	check func() bool
	err   ValidationError
}

// Apply runs rules in order and returns ValidationErrors for those that
// fail, or nil.
//
// Example:
//
//	err := validator.Apply(
//	    validator.RequiredString("email", form.Email),
//	    validator.EmailString("email", form.Email),
//	    validator.MinLenString("password", form.Password, 8),
//	)
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.check() {
			errs = append(errs, r.err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RequiredString fails when value is empty or only whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		check: func() bool { return strings.TrimSpace(value) != "" },
		err: ValidationError{
			Field:             field,
			Message:           "This field is required.",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLenString fails when value has fewer than n characters.
// An empty value passes; combine with RequiredString.
func MinLenString(field, value string, n int) Rule {
	return Rule{
		check: func() bool { return value == "" || utf8.RuneCountInString(value) >= n },
		err: ValidationError{
			Field:             field,
			Message:           "Must be at least " + strconv.Itoa(n) + " characters long.",
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": n},
		},
	}
}

// MaxLenString fails when value has more than n characters.
func MaxLenString(field, value string, n int) Rule {
	return Rule{
		check: func() bool { return utf8.RuneCountInString(value) <= n },
		err: ValidationError{
			Field:             field,
			Message:           "Must not exceed " + strconv.Itoa(n) + " characters.",
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": n},
		},
	}
}

// EmailString fails when value is not a bare email address.
// An empty value passes; combine with RequiredString.
func EmailString(field, value string) Rule {
	return Rule{
		check: func() bool { return value == "" || isEmail(value) },
		err: ValidationError{
			Field:             field,
			Message:           "Must be a valid email address.",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
