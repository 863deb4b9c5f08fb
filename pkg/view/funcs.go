package view

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	ugcPolicy = bluemonday.UGCPolicy()
	md        = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"sanitize": Sanitize,
		"markdown": Markdown,
	}
}

// Sanitize strips unsafe markup from user-supplied HTML and marks the rest
// as safe for output.
func Sanitize(s string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(s))
}

// Markdown renders GitHub-flavored markdown and sanitizes the result.
func Markdown(s string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return "", err
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())), nil
}
