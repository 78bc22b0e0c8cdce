package web

import (
	"encoding/json"
	"net/http"

	"github.com/avdw/planagrid/internal/core"
	"github.com/avdw/planagrid/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// loadResponse is the payload of a successful load: the session handle, the
// grid column definitions and the row contents as display strings.
type loadResponse struct {
	SessionID  string           `json:"sessionId"`
	ColumnDefs []core.ColumnDef `json:"columnDefs"`
	Rows       [][]string       `json:"rows"`
	RowCount   int              `json:"rowCount"`
	Status     string           `json:"status"`
}

// cellEdit is one changed cell reported by the grid. Entries without a
// column name only mark the row as changed.
type cellEdit struct {
	RowIndex int    `json:"rowIndex"`
	Column   string `json:"column"`
	Value    string `json:"value"`
}

// handleCreateSession loads a table and opens a fresh editing session over
// it. A reload of the same table simply creates a new session; the old one
// is dropped by the client.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table string `json:"table"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, "no table was selected")
		return
	}

	sess, err := s.loader.Load(r.Context(), req.Table)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defs := s.loader.ColumnDefs(r.Context(), sess)
	s.sessions.Put(sess)

	logging.FromContext(r.Context()).Info("session opened",
		"session_id", sess.ID.String(),
		"table", sess.Table.String(),
		"rows", len(sess.Grid),
	)

	writeJSON(w, loadResponse{
		SessionID:  sess.ID.String(),
		ColumnDefs: defs,
		Rows:       displayRows(sess.Grid),
		RowCount:   len(sess.Grid),
		Status:     "Data successfully loaded",
	})
}

// handleEdits applies one edit event: every entry updates its cell (when a
// column is named) and records its row in the session's changed set. An
// event with zero entries is a no-op.
func (s *Server) handleEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Cells []cellEdit `json:"cells"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, c := range req.Cells {
		if c.Column == "" {
			sess.RecordEdit(c.RowIndex)
			continue
		}
		if err := sess.ApplyEdit(c.RowIndex, c.Column, c.Value); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	writeJSON(w, map[string]int{"changed": sess.Changes().Len()})
}

// handleSave reconciles the session's tracked edits against the backing
// table.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	result, err := s.engine.Save(r.Context(), sess)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("session saved",
		"session_id", sess.ID.String(),
		"table", sess.Table.String(),
		"rows_written", result.RowsWritten,
	)

	writeJSON(w, map[string]any{
		"status":      result.Message,
		"rowsWritten": result.RowsWritten,
	})
}

// handleResetSession clears the session's changed-row set.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, map[string]string{"status": "session reset"})
}

// handleDropSession discards a session entirely.
func (s *Server) handleDropSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	s.sessions.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the session named in the URL, writing the error response
// itself when the ID is invalid or unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*core.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session; reload the table")
		return nil, false
	}
	return sess, true
}

// displayRows renders the grid as display strings, cell-aligned with the
// column definitions.
func displayRows(grid []core.Row) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.Display()
		}
		out[i] = cells
	}
	return out
}
