package core

// value.go defines the tagged-union cell value used throughout the grid.
//
// Every cell carries exactly one of: null, a number, a text string, a
// boolean, or a date. Keeping the kind explicit lets coercion and merge
// logic switch exhaustively instead of inspecting runtime types, and keeps
// the binding to pgtype in one place.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the fixed display format for date cells. Grid edits of date
// columns must parse with this layout or the save fails.
const DateLayout = "2006-01-02"

// Value is a single grid cell.
type Value struct {
	kind    Kind
	null    bool
	number  float64
	text    string
	boolean bool
	date    time.Time
}

// Null returns the null value.
func Null() Value { return Value{null: true} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumeric, number: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Date returns a date value truncated to the day.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Kind reports the value's semantic kind. Null values report KindText.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.null }

// Float returns the numeric payload.
func (v Value) Float() float64 { return v.number }

// Str returns the text payload.
func (v Value) Str() string { return v.text }

// Truth returns the boolean payload.
func (v Value) Truth() bool { return v.boolean }

// Day returns the date payload.
func (v Value) Day() time.Time { return v.date }

// Display renders the value as the grid shows it.
func (v Value) Display() string {
	if v.null {
		return ""
	}
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.text
	}
}

// Bind returns the value as a driver argument for the storage backend.
func (v Value) Bind() any {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindNumeric:
		return v.number
	case KindBool:
		return v.boolean
	case KindDate:
		return pgtype.Date{Time: v.date, Valid: true}
	default:
		return v.text
	}
}

// ParseCell converts a raw grid string into a typed value for the given
// column kind. An empty string is null. Date strings must match DateLayout
// exactly.
func ParseCell(raw string, kind Kind) (Value, error) {
	if raw == "" {
		return Null(), nil
	}
	switch kind {
	case KindNumeric:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", raw)
		}
		return Number(f), nil
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "1", "t", "true", "yes":
			return Bool(true), nil
		case "0", "f", "false", "no":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("invalid boolean %q", raw)
	case KindDate:
		t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return Value{}, err
		}
		return Date(t), nil
	default:
		return Text(raw), nil
	}
}

// ScanValue converts a value scanned from the storage backend into a cell.
func ScanValue(raw any, kind Kind) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case int:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case time.Time:
		if kind == KindDate {
			return Date(x)
		}
		return Text(x.Format(time.RFC3339))
	case pgtype.Date:
		if !x.Valid {
			return Null()
		}
		return Date(x.Time)
	case pgtype.Numeric:
		if !x.Valid {
			return Null()
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return Text(fmt.Sprint(raw))
		}
		return Number(f.Float64)
	case []byte:
		return Text(string(x))
	case string:
		return Text(x)
	default:
		return Text(fmt.Sprint(raw))
	}
}

// Row is one record of the grid, cell-aligned with the session's schema.
type Row []Value

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}
