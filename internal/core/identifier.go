package core

import (
	"fmt"
	"strings"
)

// TableName is a fully qualified three-part table identifier.
type TableName struct {
	Catalog string
	Schema  string
	Table   string
}

// ParseTableName splits a qualified name into its three parts.
// The name must contain exactly three non-empty dot-separated segments;
// anything else is a user input error, not a system fault.
func ParseTableName(s string) (TableName, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TableName{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
	}
	for _, p := range parts {
		if p == "" {
			return TableName{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, s)
		}
	}
	return TableName{Catalog: parts[0], Schema: parts[1], Table: parts[2]}, nil
}

// String re-joins the three parts with dots.
func (t TableName) String() string {
	return t.Catalog + "." + t.Schema + "." + t.Table
}

// Quoted returns the identifier with each part quoted for use in SQL.
func (t TableName) Quoted() string {
	return QuoteIdent(t.Catalog) + "." + QuoteIdent(t.Schema) + "." + QuoteIdent(t.Table)
}

// QuoteIdent quotes a single SQL identifier. Identifiers that are obviously
// safe unquoted (lowercase letters, digits, underscores, not starting with a
// digit) are returned as-is to keep generated SQL readable.
func QuoteIdent(ident string) string {
	if isSafeUnquotedIdent(ident) {
		return ident
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func isSafeUnquotedIdent(ident string) bool {
	if ident == "" {
		return false
	}
	c0 := ident[0]
	if !((c0 >= 'a' && c0 <= 'z') || c0 == '_') {
		return false
	}
	for i := 1; i < len(ident); i++ {
		c := ident[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
