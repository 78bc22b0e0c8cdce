package core

import (
	"context"
	"errors"
	"testing"
)

func TestResolveKeys(t *testing.T) {
	f := planStore()
	f.keys["cat.ns.t2"] = []string{"region", "year"}
	r := KeyResolver{Store: f, Registry: TableName{Catalog: "registry", Schema: "default", Table: "table_keys"}}

	keys, err := r.Resolve(context.Background(), "cat.ns.t2")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "region" || keys[1] != "year" {
		t.Errorf("Resolve() = %v, want [region year] in registry order", keys)
	}

	// Unknown tables resolve to no keys without an error.
	keys, err = r.Resolve(context.Background(), "cat.ns.unknown")
	if err != nil || len(keys) != 0 {
		t.Errorf("Resolve(unknown) = %v, %v, want empty and nil", keys, err)
	}
}

func TestResolveKeys_MalformedName(t *testing.T) {
	r := KeyResolver{Store: planStore(), Registry: TableName{Catalog: "registry", Schema: "default", Table: "table_keys"}}
	for _, name := range []string{"t1", "ns.t1", "a.b.c.d", "cat..t1"} {
		if _, err := r.Resolve(context.Background(), name); !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("Resolve(%q) error = %v, want ErrMalformedIdentifier", name, err)
		}
	}
}

func TestResolveKeys_StorageFailure(t *testing.T) {
	f := planStore()
	f.keyErr = errors.New("registry unreachable")
	r := KeyResolver{Store: f, Registry: TableName{Catalog: "registry", Schema: "default", Table: "table_keys"}}

	_, err := r.Resolve(context.Background(), "cat.ns.t1")
	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Fatalf("Resolve() error = %v, want StorageError", err)
	}
	if !errors.Is(err, f.keyErr) {
		t.Errorf("StorageError does not wrap the cause")
	}
}
