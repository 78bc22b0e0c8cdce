package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avdw/planagrid/internal/core"
)

// fakeStore serves a two-row table and records merges.
type fakeStore struct {
	keys   map[string][]string
	merges int
	source []core.Row
}

func (f *fakeStore) GetTable(_ context.Context, table core.TableName) (core.Schema, []core.Row, error) {
	schema := core.Schema{
		{Name: "id", DBType: "integer", Kind: core.KindNumeric},
		{Name: "name", DBType: "text", Kind: core.KindText},
	}
	rows := []core.Row{
		{core.Number(1), core.Text("a")},
		{core.Number(2), core.Text("b")},
	}
	return schema, rows, nil
}

func (f *fakeStore) KeyColumns(_ context.Context, _, target core.TableName) ([]string, error) {
	return f.keys[target.String()], nil
}

func (f *fakeStore) MergeUpsert(_ context.Context, _ core.TableName, _ core.Schema, source []core.Row, _, _ []string) error {
	f.merges++
	f.source = source
	return nil
}

func newTestServer(keys map[string][]string) (*Server, *fakeStore) {
	f := &fakeStore{keys: keys}
	s := NewServer(f, Options{
		KeyRegistry: core.TableName{Catalog: "registry", Schema: "default", Table: "table_keys"},
	})
	return s, f
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func openSession(t *testing.T, s *Server) loadResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", map[string]string{"table": "cat.ns.t1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create session status = %d: %s", rec.Code, rec.Body)
	}
	var resp loadResponse
	decode(t, rec, &resp)
	return resp
}

func TestCreateSession(t *testing.T) {
	s, _ := newTestServer(map[string][]string{"cat.ns.t1": {"id"}})
	resp := openSession(t, s)

	if resp.Status != "Data successfully loaded" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.RowCount != 2 || len(resp.Rows) != 2 {
		t.Errorf("rows = %d/%d, want 2", resp.RowCount, len(resp.Rows))
	}
	if len(resp.ColumnDefs) != 2 {
		t.Fatalf("columnDefs = %d, want 2", len(resp.ColumnDefs))
	}
	if !resp.ColumnDefs[0].Keyed || resp.ColumnDefs[0].Editable {
		t.Errorf("id column def = %+v, want keyed read-only", resp.ColumnDefs[0])
	}
	if resp.Rows[1][1] != "b" {
		t.Errorf("rows[1][1] = %q, want b", resp.Rows[1][1])
	}
}

func TestCreateSession_MalformedName(t *testing.T) {
	s, _ := newTestServer(nil)
	rec := do(t, s, http.MethodPost, "/api/sessions", map[string]string{"table": "oops"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	decode(t, rec, &resp)
	if resp.Code != "IDENT001" {
		t.Errorf("code = %q, want IDENT001", resp.Code)
	}
}

func TestEditAndSave(t *testing.T) {
	s, f := newTestServer(map[string][]string{"cat.ns.t1": {"id"}})
	sess := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/edits", map[string]any{
		"cells": []map[string]any{{"rowIndex": 1, "column": "name", "value": "bb"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", rec.Code, rec.Body)
	}
	var editResp map[string]int
	decode(t, rec, &editResp)
	if editResp["changed"] != 1 {
		t.Errorf("changed = %d, want 1", editResp["changed"])
	}

	rec = do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	var saveResp map[string]any
	decode(t, rec, &saveResp)
	if saveResp["status"] != "Data was successfully saved!" {
		t.Errorf("save status message = %v", saveResp["status"])
	}
	if f.merges != 1 || len(f.source) != 1 {
		t.Fatalf("merges = %d, source = %d", f.merges, len(f.source))
	}
	if f.source[0][1] != core.Text("bb") {
		t.Errorf("merged cell = %v, want bb", f.source[0][1])
	}
}

func TestSave_NoPrimaryKey(t *testing.T) {
	s, f := newTestServer(map[string][]string{}) // registry empty
	sess := openSession(t, s)

	do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/edits", map[string]any{
		"cells": []map[string]any{{"rowIndex": 0, "column": "name", "value": "x"}},
	})
	rec := do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/save", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp errorResponse
	decode(t, rec, &resp)
	if resp.Code != "KEY001" {
		t.Errorf("code = %q, want KEY001", resp.Code)
	}
	if f.merges != 0 {
		t.Errorf("merge invoked despite missing keys")
	}
}

func TestSave_NothingChanged(t *testing.T) {
	s, f := newTestServer(map[string][]string{"cat.ns.t1": {"id"}})
	sess := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	decode(t, rec, &resp)
	if resp["status"] != "No changes to be saved." {
		t.Errorf("status = %v", resp["status"])
	}
	if f.merges != 0 {
		t.Errorf("merge invoked with no changes")
	}
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestServer(nil)
	rec := do(t, s, http.MethodPost, "/api/sessions/0b7faf1e-9f62-4b6c-9a3e-1c2d3e4f5a6b/save", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/sessions/not-a-uuid/save", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResetAndDropSession(t *testing.T) {
	s, f := newTestServer(map[string][]string{"cat.ns.t1": {"id"}})
	sess := openSession(t, s)

	do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/edits", map[string]any{
		"cells": []map[string]any{{"rowIndex": 0, "column": "name", "value": "x"}},
	})
	rec := do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/save", nil)
	var resp map[string]any
	decode(t, rec, &resp)
	if resp["status"] != "No changes to be saved." || f.merges != 0 {
		t.Errorf("reset did not clear the change set")
	}

	rec = do(t, s, http.MethodDelete, "/api/sessions/"+sess.SessionID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("drop status = %d, want 204", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/sessions/"+sess.SessionID+"/save", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after drop = %d, want 404", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(nil)
	rec := do(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "table-name-input") {
		t.Errorf("page missing table name input")
	}
}
