package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToSQL renders the SELECT statement with bindings substituted inline.
// The result is for logs and debugging only; it is never executed.
func (b *Builder) ToSQL() (string, error) {
	sql, args, err := b.Build()
	if err != nil {
		return "", err
	}
	return Interpolate(sql, args), nil
}

// Interpolate replaces each "?" in sql with the matching argument.
// Numbers and booleans are written bare, everything else is quoted.
// Extra placeholders are left untouched.
func Interpolate(sql string, args []any) string {
	var sb strings.Builder
	sb.Grow(len(sql) + 8*len(args))

	i := 0
	for _, r := range sql {
		if r == '?' && i < len(args) {
			sb.WriteString(literal(args[i]))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return quote(x.Format(time.RFC3339Nano))
	case []byte:
		return quote(string(x))
	case string:
		return quote(x)
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
