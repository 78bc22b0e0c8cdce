package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Session is one user's open editing view of a single table. It owns the
// grid state and the changed-row set; nothing else mutates them. All session
// operations run on a single logical thread of control (the request handling
// for that one view), so the session itself carries no lock.
type Session struct {
	ID     uuid.UUID
	Table  TableName
	Schema Schema
	Grid   []Row

	changes *ChangeSet
}

// NewSession builds a fresh session over a loaded grid.
func NewSession(table TableName, schema Schema, rows []Row) *Session {
	return &Session{
		ID:      uuid.New(),
		Table:   table,
		Schema:  schema,
		Grid:    rows,
		changes: NewChangeSet(),
	}
}

// RecordEdit adds the given row indices to the changed set.
func (s *Session) RecordEdit(indices ...int) {
	s.changes.Record(indices...)
}

// Changes returns the session's changed-row set.
func (s *Session) Changes() *ChangeSet { return s.changes }

// ApplyEdit writes a raw grid string into a cell and records the row as
// changed. Numeric and boolean cells are parsed immediately so the user gets
// feedback on the edit; date cells keep the raw string and are coerced at
// save time.
func (s *Session) ApplyEdit(rowIdx int, column, raw string) error {
	if rowIdx < 0 || rowIdx >= len(s.Grid) {
		return fmt.Errorf("%w: %d (grid has %d rows)", ErrIndexOutOfRange, rowIdx, len(s.Grid))
	}
	colIdx := s.Schema.Index(column)
	if colIdx < 0 {
		return fmt.Errorf("unknown column %q", column)
	}

	var v Value
	if s.Schema[colIdx].Kind == KindDate && raw != "" {
		v = Text(raw)
	} else {
		parsed, err := ParseCell(raw, s.Schema[colIdx].Kind)
		if err != nil {
			return err
		}
		v = parsed
	}
	s.Grid[rowIdx][colIdx] = v
	s.changes.Record(rowIdx)
	return nil
}

// Reset clears the changed-row set. The grid itself is replaced only by a
// fresh load, which builds a new session.
func (s *Session) Reset() {
	s.changes.Reset()
}

// SessionRegistry tracks the live editing sessions by ID. The registry is
// shared across requests and guards its map; the sessions it hands out are
// each single-view state.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uuid.UUID]*Session)}
}

// Put stores a session, replacing any previous session with the same ID.
func (r *SessionRegistry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns the session with the given ID.
func (r *SessionRegistry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Drop removes a session.
func (r *SessionRegistry) Drop(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
