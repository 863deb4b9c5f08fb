package cli

import "errors"

var (
	ErrControllerExists = errors.New("cli: controller already exists")
	ErrInvalidName      = errors.New("cli: invalid controller name")
	ErrUnknownDirection = errors.New("cli: unknown migrate command")
)
