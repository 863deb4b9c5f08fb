package validator

// Validator collects errors across several checks. It is the imperative
// counterpart of Apply, handy in controllers that validate step by step.
//
// Example:
//
//	v := validator.New()
//	v.Required("name", c.Form("name"))
//	v.Email("email", c.Form("email"))
//	if !v.Passes() {
//	    return c.View(http.StatusUnprocessableEntity, "users/create", map[string]any{
//	        "errors": v.Errors().Map(),
//	    })
//	}
type Validator struct {
	errs ValidationErrors
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Required records an error when value is blank.
func (v *Validator) Required(field, value string, message ...string) *Validator {
	return v.add(RequiredString(field, value), message)
}

// MinLength records an error when value is shorter than n characters.
func (v *Validator) MinLength(field, value string, n int, message ...string) *Validator {
	return v.add(MinLenString(field, value, n), message)
}

// MaxLength records an error when value is longer than n characters.
func (v *Validator) MaxLength(field, value string, n int, message ...string) *Validator {
	return v.add(MaxLenString(field, value, n), message)
}

// Email records an error when value is not an email address.
func (v *Validator) Email(field, value string, message ...string) *Validator {
	return v.add(EmailString(field, value), message)
}

// Check runs arbitrary rules.
func (v *Validator) Check(rules ...Rule) *Validator {
	for _, r := range rules {
		v.add(r, nil)
	}
	return v
}

// Passes reports whether no check has failed.
func (v *Validator) Passes() bool {
	return len(v.errs) == 0
}

// Errors returns the failed checks.
func (v *Validator) Errors() ValidationErrors {
	return v.errs
}

// Err returns the errors as an error, or nil when all checks passed.
func (v *Validator) Err() error {
	if v.Passes() {
		return nil
	}
	return v.errs
}

func (v *Validator) add(r Rule, message []string) *Validator {
	if r.check() {
		return v
	}
	if len(message) > 0 && message[0] != "" {
		r.err.Message = message[0]
		r.err.TranslationKey = ""
	}
	v.errs = append(v.errs, r.err)
	return v
}
