// Package validator checks form input and reports per-field errors.
//
// Rules are plain values combined with Apply, or accumulated with a
// Validator. Failures come back as ValidationErrors, which implements error
// and maps to 422 Unprocessable Entity in frame's default error handler.
// Messages carry translation keys for applications that localize them.
package validator
