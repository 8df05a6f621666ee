package database

import "strings"

// CommentMarker starts a SQL line comment.
const CommentMarker = "--"

// UnquoteIdentifier strips one matching pair of identifier quotes ("x", [x],
// `x` or 'x') from name and collapses doubled quote characters inside it.
// Names without a matching pair are returned unchanged.
func UnquoteIdentifier(name string) string {
	if len(name) < 2 {
		return name
	}
	first, last := name[0], name[len(name)-1]
	inner := name[1 : len(name)-1]
	switch {
	case first == '[' && last == ']':
		return inner
	case first == last && (first == '"' || first == '`' || first == '\''):
		q := string(first)
		return strings.ReplaceAll(inner, q+q, q)
	}
	return name
}

// QuoteIdentifier wraps name in double quotes, doubling embedded ones.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
