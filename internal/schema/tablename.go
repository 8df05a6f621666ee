// Package schema derives table names from SQL text and caches the column
// metadata of those tables for the lifetime of a session.
package schema

import (
	"strings"
	"unicode"
)

const fromKeyword = "from"

// TableName guesses the table a statement reads from.
//
// It is a lexical heuristic, not a parser: it takes the text after the first
// case-insensitive occurrence of "from", trims it, cuts it at the first
// whitespace character, trims again and strips one trailing ';'. It does not
// understand joins, subqueries, quoted identifiers or schema-qualified names,
// and "from" inside identifiers or literals (e.g. "fromage") also matches.
// A statement without "from" yields "".
//
//	TableName("SELECT * FROM Users;")            // "Users"
//	TableName("select a from widgets where a>1") // "widgets"
func TableName(query string) string {
	i := indexFold(query, fromKeyword)
	if i < 0 {
		return ""
	}

	name := strings.TrimSpace(query[i+len(fromKeyword):])
	if j := strings.IndexFunc(name, unicode.IsSpace); j >= 0 {
		name = name[:j]
	}
	name = strings.TrimSpace(name)
	return strings.TrimSuffix(name, ";")
}

// indexFold returns the index of the first ASCII case-insensitive match of
// the lowercase needle in s, or -1.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		match := true
		for j := 0; j < n; j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
