package view

import (
	"fmt"
	"regexp"
	"strings"
)

// CSRFInput is the markup emitted for the #csrf directive.
const CSRFInput = `<input type="hidden" name="_token" value="{{ $.csrf_token }}">`

var foreachClause = regexp.MustCompile(`^(.+?)\s+as\s+\$([A-Za-z_][A-Za-z0-9_]*)(?:\s*=>\s*\$([A-Za-z_][A-Za-z0-9_]*))?$`)

type blockKind uint8

const (
	blockIf blockKind = iota
	blockLoop
)

type block struct {
	kind    blockKind
	line    int
	vars    []string
	hasElse bool
}

type compiler struct {
	src    string
	pos    int
	out    strings.Builder
	blocks []block
}

// Compile translates view source into html/template source.
//
// Supported syntax:
//
//	{{ $title }}                       escaped output of data["title"]
//	{{ $post.Body | markdown }}        any template pipeline
//	#if(gt (len $items) 0) ... #elseif($draft) ... #else ... #endif
//	#foreach($items as $item) ... #endforeach
//	#foreach($items as $i => $item) ... #endforeach
//	#csrf                              hidden _token input
//
// $name refers to the view data; loop variables stay local inside their
// #foreach block. Unbalanced blocks are reported with their line number.
func Compile(src string) (string, error) {
	c := &compiler{src: src}
	if err := c.run(); err != nil {
		return "", err
	}
	return c.out.String(), nil
}

func (c *compiler) run() error {
	for c.pos < len(c.src) {
		switch {
		case strings.HasPrefix(c.src[c.pos:], "{{"):
			if err := c.echo(); err != nil {
				return err
			}
		case c.src[c.pos] == '#':
			ok, err := c.directive()
			if err != nil {
				return err
			}
			if !ok {
				c.out.WriteByte('#')
				c.pos++
			}
		default:
			next := strings.IndexAny(c.src[c.pos:], "{#")
			if next < 0 {
				c.out.WriteString(c.src[c.pos:])
				c.pos = len(c.src)
				continue
			}
			if next == 0 {
				// A single '{' not starting an action.
				next = 1
			}
			c.out.WriteString(c.src[c.pos : c.pos+next])
			c.pos += next
		}
	}

	if n := len(c.blocks); n > 0 {
		b := c.blocks[n-1]
		if b.kind == blockLoop {
			return c.errorf(b.line, "#foreach is never closed")
		}
		return c.errorf(b.line, "#if is never closed")
	}
	return nil
}

func (c *compiler) echo() error {
	start := c.pos
	end := strings.Index(c.src[start+2:], "}}")
	if end < 0 {
		return c.errorf(c.line(start), "unclosed {{")
	}
	inner := c.src[start+2 : start+2+end]
	c.out.WriteString("{{")
	c.out.WriteString(rewriteVars(inner, c.locals()))
	c.out.WriteString("}}")
	c.pos = start + 2 + end + 2
	return nil
}

// directive handles a '#' at c.pos. It reports false when the text is not
// a directive and should be copied through.
func (c *compiler) directive() (bool, error) {
	rest := c.src[c.pos+1:]
	line := c.line(c.pos)

	// Longer keywords first so #elseif is not read as #else.
	for _, kw := range []string{"endforeach", "foreach", "elseif", "else", "endif", "if", "csrf"} {
		if !strings.HasPrefix(rest, kw) || isIdent(byteAt(rest, len(kw))) {
			continue
		}
		after := c.pos + 1 + len(kw)

		switch kw {
		case "csrf":
			c.out.WriteString(CSRFInput)
			c.pos = after
			return true, nil

		case "else":
			b, err := c.top(blockIf, line, "#else")
			if err != nil {
				return false, err
			}
			if b.hasElse {
				return false, c.errorf(line, "duplicate #else")
			}
			b.hasElse = true
			c.out.WriteString("{{ else }}")
			c.pos = after
			return true, nil

		case "endif":
			if _, err := c.top(blockIf, line, "#endif"); err != nil {
				return false, err
			}
			c.blocks = c.blocks[:len(c.blocks)-1]
			c.out.WriteString("{{ end }}")
			c.pos = after
			return true, nil

		case "endforeach":
			if _, err := c.top(blockLoop, line, "#endforeach"); err != nil {
				return false, err
			}
			c.blocks = c.blocks[:len(c.blocks)-1]
			c.out.WriteString("{{ end }}")
			c.pos = after
			return true, nil
		}

		arg, next, ok := parenArg(c.src, after)
		if !ok {
			return false, nil
		}
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return false, c.errorf(line, "#%s needs an expression", kw)
		}

		switch kw {
		case "if":
			c.out.WriteString("{{ if " + rewriteVars(arg, c.locals()) + " }}")
			c.blocks = append(c.blocks, block{kind: blockIf, line: line})

		case "elseif":
			b, err := c.top(blockIf, line, "#elseif")
			if err != nil {
				return false, err
			}
			if b.hasElse {
				return false, c.errorf(line, "#elseif after #else")
			}
			c.out.WriteString("{{ else if " + rewriteVars(arg, c.locals()) + " }}")

		case "foreach":
			m := foreachClause.FindStringSubmatch(arg)
			if m == nil {
				return false, c.errorf(line, "#foreach expects ($items as $item) or ($items as $key => $item), got %q", arg)
			}
			source := rewriteVars(m[1], c.locals())
			if m[3] != "" {
				c.out.WriteString("{{ range $" + m[2] + ", $" + m[3] + " := " + source + " }}")
				c.blocks = append(c.blocks, block{kind: blockLoop, line: line, vars: []string{m[2], m[3]}})
			} else {
				c.out.WriteString("{{ range $" + m[2] + " := " + source + " }}")
				c.blocks = append(c.blocks, block{kind: blockLoop, line: line, vars: []string{m[2]}})
			}
		}
		c.pos = next
		return true, nil
	}
	return false, nil
}

func (c *compiler) top(kind blockKind, line int, name string) (*block, error) {
	if len(c.blocks) == 0 {
		return nil, c.errorf(line, "%s without opening block", name)
	}
	b := &c.blocks[len(c.blocks)-1]
	if b.kind != kind {
		opener := "#if"
		if b.kind == blockLoop {
			opener = "#foreach"
		}
		return nil, c.errorf(line, "%s inside %s opened on line %d", name, opener, b.line)
	}
	return b, nil
}

func (c *compiler) locals() map[string]bool {
	var vars map[string]bool
	for _, b := range c.blocks {
		for _, v := range b.vars {
			if vars == nil {
				vars = make(map[string]bool)
			}
			vars[v] = true
		}
	}
	return vars
}

func (c *compiler) line(pos int) int {
	return strings.Count(c.src[:pos], "\n") + 1
}

func (c *compiler) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrCompile, line, fmt.Sprintf(format, args...))
}

// parenArg reads a parenthesized argument starting at or after spaces from
// pos. Nested parentheses and quoted strings are skipped.
func parenArg(s string, pos int) (string, int, bool) {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	if pos >= len(s) || s[pos] != '(' {
		return "", 0, false
	}
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			end := skipQuoted(s, i)
			if end < 0 {
				return "", 0, false
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[pos+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// skipQuoted returns the index of the quote closing the literal at i, or -1.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] == '\\' && q != '`' {
			j++
			continue
		}
		if s[j] == q {
			return j
		}
	}
	return -1
}

// rewriteVars turns $name into $.name unless name is a loop variable.
// String literals are left untouched.
func rewriteVars(expr string, locals map[string]bool) string {
	var b strings.Builder
	b.Grow(len(expr) + 8)
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			end := skipQuoted(expr, i)
			if end < 0 {
				b.WriteString(expr[i:])
				return b.String()
			}
			b.WriteString(expr[i : end+1])
			i = end
		case ch == '$':
			j := i + 1
			for j < len(expr) && isIdent(expr[j]) {
				j++
			}
			name := expr[i+1 : j]
			if name == "" || locals[name] {
				b.WriteString(expr[i:j])
			} else {
				b.WriteString("$." + name)
			}
			i = j - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func byteAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func isIdent(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}
