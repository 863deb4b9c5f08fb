package internal

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const defaultParamExpr = `[^/]+`

var paramName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Params maps placeholder names to the values captured from a path.
type Params map[string]string

// Pattern is a compiled URI template such as "/users/{id:\d+}/posts/{slug}".
type Pattern struct {
	template string
	re       *regexp.Regexp
	names    []string
	indexes  []int
	segments []segment
}

// segment is either literal text or a placeholder, kept for reverse routing.
type segment struct {
	literal string
	param   string
}

// CompilePattern converts a URI template into an anchored matcher.
//
// Literal text is matched verbatim. "{name}" captures one path segment and
// "{name:regex}" captures whatever regex matches; braces inside the regex
// must balance, as in "{year:\d{4}}", except inside character classes
// such as "{id:[^}]+}". Names must match [A-Za-z0-9_]+ and
// may appear only once per template.
func CompilePattern(template string) (*Pattern, error) {
	var (
		expr     strings.Builder
		literal  strings.Builder
		names    []string
		segments []segment
		seen     = make(map[string]struct{})
	)

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		expr.WriteString(regexp.QuoteMeta(literal.String()))
		segments = append(segments, segment{literal: literal.String()})
		literal.Reset()
	}

	expr.WriteByte('^')
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			end := closingBrace(template, i)
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed placeholder in %q", ErrInvalidPattern, template)
			}

			name, custom, _ := strings.Cut(template[i+1:end], ":")
			if !paramName.MatchString(name) {
				return nil, fmt.Errorf("%w: bad parameter name %q in %q", ErrInvalidPattern, name, template)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, name, template)
			}
			seen[name] = struct{}{}

			if custom == "" {
				custom = defaultParamExpr
			}
			if _, err := regexp.Compile(custom); err != nil {
				return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidPattern, name, err)
			}

			flush()
			expr.WriteString("(?P<" + name + ">(?:" + custom + "))")
			names = append(names, name)
			segments = append(segments, segment{param: name})
			i = end + 1
		case '}':
			return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrInvalidPattern, template)
		default:
			literal.WriteByte(template[i])
			i++
		}
	}
	flush()
	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, template, err)
	}

	indexes := make([]int, len(names))
	for i, name := range names {
		indexes[i] = re.SubexpIndex(name)
	}

	return &Pattern{
		template: template,
		re:       re,
		names:    names,
		indexes:  indexes,
		segments: segments,
	}, nil
}

// closingBrace returns the index of the brace closing the one at open,
// honouring nesting, backslash escapes and character classes, or -1.
func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			i = classEnd(s, i)
			if i < 0 {
				return -1
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// classEnd returns the index of the ']' closing the character class that
// starts at open, or -1. A ']' right after "[" or "[^" is a literal.
func classEnd(s string, open int) int {
	i := open + 1
	if i < len(s) && s[i] == '^' {
		i++
	}
	if i < len(s) && s[i] == ']' {
		i++
	}
	for ; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return -1
}

// Match reports whether path matches the whole pattern and returns the
// captured values of its declared placeholders.
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(Params, len(p.names))
	for i, name := range p.names {
		params[name] = m[p.indexes[i]]
	}
	return params, true
}

// Names returns placeholder names in template order.
func (p *Pattern) Names() []string {
	return p.names
}

// String returns the source template.
func (p *Pattern) String() string {
	return p.template
}

// Build substitutes params into the template. Placeholders without a
// value are dropped together with the slash they leave behind.
func (p *Pattern) Build(params map[string]string) string {
	var sb strings.Builder
	for _, seg := range p.segments {
		if seg.param == "" {
			sb.WriteString(seg.literal)
			continue
		}
		if v := params[seg.param]; v != "" {
			sb.WriteString(url.PathEscape(v))
		}
	}
	return cleanPath(sb.String())
}

// cleanPath collapses repeated slashes and removes the trailing one.
func cleanPath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimRight(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
