package query

import (
	"strconv"
	"strings"
)

// Dialect selects backend-specific clauses. It only affects the RETURNING
// suffix of inserts and the placeholder style used at bind time.
type Dialect int

const (
	Generic Dialect = iota
	H2
	PostgreSQL
)

func (d Dialect) String() string {
	switch d {
	case H2:
		return "H2"
	case PostgreSQL:
		return "POSTGRESQL"
	default:
		return "GENERIC"
	}
}

// DialectFromURL picks the dialect from a connection URL prefix.
func DialectFromURL(url string) Dialect {
	switch {
	case strings.HasPrefix(url, "jdbc:h2:"):
		return H2
	case strings.HasPrefix(url, "jdbc:postgresql:"),
		strings.HasPrefix(url, "postgres://"),
		strings.HasPrefix(url, "postgresql://"):
		return PostgreSQL
	default:
		return Generic
	}
}

// Rebind rewrites ? placeholders into the marker style d expects.
// PostgreSQL uses $1..$n. Quoted literals, quoted identifiers and
// comments are left alone.
func Rebind(d Dialect, text string) string {
	if d != PostgreSQL || !strings.Contains(text, "?") {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text) + 8)
	n := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\'' || c == '"':
			end := strings.IndexByte(text[i+1:], c)
			if end < 0 {
				sb.WriteString(text[i:])
				return sb.String()
			}
			sb.WriteString(text[i : i+end+2])
			i += end + 1
		case c == '-' && strings.HasPrefix(text[i:], "--"):
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				sb.WriteString(text[i:])
				return sb.String()
			}
			sb.WriteString(text[i : i+end+1])
			i += end
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				sb.WriteString(text[i:])
				return sb.String()
			}
			sb.WriteString(text[i : i+end+4])
			i += end + 3
		case c == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
