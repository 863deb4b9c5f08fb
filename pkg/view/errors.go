package view

import "errors"

var (
	ErrTemplateNotFound = errors.New("view: template not found")
	ErrCompile          = errors.New("view: failed to compile template")
	ErrParse            = errors.New("view: failed to parse compiled template")
	ErrRender           = errors.New("view: failed to render template")
)
