package core

import (
	"errors"
	"testing"
)

func TestParseTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TableName
		wantErr bool
	}{
		{
			name:  "three parts",
			input: "cat.ns.t1",
			want:  TableName{Catalog: "cat", Schema: "ns", Table: "t1"},
		},
		{
			name:  "underscores and digits",
			input: "lakehouse1.default.annual_plan",
			want:  TableName{Catalog: "lakehouse1", Schema: "default", Table: "annual_plan"},
		},
		{name: "two parts", input: "ns.t1", wantErr: true},
		{name: "four parts", input: "a.b.c.d", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "bare name", input: "t1", wantErr: true},
		{name: "empty middle segment", input: "cat..t1", wantErr: true},
		{name: "trailing dot", input: "cat.ns.", wantErr: true},
		{name: "leading dot", input: ".ns.t1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTableName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedIdentifier) {
					t.Fatalf("ParseTableName(%q) error = %v, want ErrMalformedIdentifier", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTableName(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTableName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  string
	}{
		{"plain_name", "plain_name"},
		{"name2", "name2"},
		{"Mixed", `"Mixed"`},
		{"has space", `"has space"`},
		{"2starts_with_digit", `"2starts_with_digit"`},
		{`emb"edded`, `"emb""edded"`},
		{"", `""`},
	}
	for _, tt := range tests {
		if got := QuoteIdent(tt.ident); got != tt.want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestTableNameQuoted(t *testing.T) {
	tn := TableName{Catalog: "cat", Schema: "My Schema", Table: "t1"}
	if got := tn.Quoted(); got != `cat."My Schema".t1` {
		t.Errorf("Quoted() = %s", got)
	}
}
