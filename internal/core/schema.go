package core

import "strings"

// Kind is the semantic type of a column as the grid understands it.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBool
	KindDate
)

// GridType returns the grid-facing column type name for a kind.
func (k Kind) GridType() string {
	switch k {
	case KindNumeric:
		return "numericColumn"
	case KindBool:
		return "booleanColumn"
	case KindDate:
		return "dateColumn"
	default:
		return "textColumn"
	}
}

// Classify maps a backing-store column type name to a semantic kind.
// It is total: any type it does not recognize is treated as text, so an
// unknown type degrades to a plain editable string rather than an error.
func Classify(dbType string) Kind {
	t := strings.ToLower(strings.TrimSpace(dbType))
	switch {
	case strings.Contains(t, "int"),
		strings.Contains(t, "numeric"),
		strings.Contains(t, "decimal"),
		strings.Contains(t, "real"),
		strings.Contains(t, "double"),
		strings.Contains(t, "float"):
		return KindNumeric
	case strings.Contains(t, "bool"):
		return KindBool
	case strings.Contains(t, "date"), strings.Contains(t, "timestamp"):
		return KindDate
	default:
		return KindText
	}
}

// ColumnDescriptor describes one column of a loaded table. Descriptors are
// recomputed on every load and never cached across sessions.
type ColumnDescriptor struct {
	Name     string
	DBType   string
	Kind     Kind
	Nullable bool
	IsKey    bool
}

// Schema is the ordered column list of a loaded table.
type Schema []ColumnDescriptor

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Columns returns the column names in schema order.
func (s Schema) Columns() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// MarkKeys sets the IsKey flag on the named columns. Names that do not match
// any column are ignored.
func (s Schema) MarkKeys(keys []string) {
	for _, k := range keys {
		if i := s.Index(k); i >= 0 {
			s[i].IsKey = true
		}
	}
}

// NonKeyColumns returns the names of all columns not present in keys,
// preserving schema order. These are the columns a merge updates.
func (s Schema) NonKeyColumns(keys []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	var names []string
	for _, c := range s {
		if !isKey[c.Name] {
			names = append(names, c.Name)
		}
	}
	return names
}
