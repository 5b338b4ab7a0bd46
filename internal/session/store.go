package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pagelens/pagelens/internal/chunkstore"
	"github.com/pagelens/pagelens/internal/citation"
	"github.com/pagelens/pagelens/internal/db"
	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// Store persists sessions and their messages in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store over the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// SessionInfo is a row in the session listing.
type SessionInfo struct {
	ID        string
	PageURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// storedSource is the persisted shape of a retrieval result. Chunks are
// copied here: the vector store may be rebuilt between runs, and a
// transcript must stay readable regardless.
type storedSource struct {
	ChunkID     string   `json:"chunk_id"`
	HeadingPath []string `json:"heading_path,omitempty"`
	Text        string   `json:"text"`
	Score       float64  `json:"score"`
}

// AppendMessages upserts the session row and appends the given messages.
func (s *Store) AppendMessages(sessionID, pageURL string, msgs []history.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, page_url) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = datetime('now')`,
		sessionID, pageURL)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	for _, m := range msgs {
		sources, citations, err := marshalAnnotations(m)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO messages (id, session_id, role, content, sources, citations, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, sessionID, string(m.Role), m.Content, sources, citations, m.Timestamp.UTC())
		if err != nil {
			return fmt.Errorf("inserting message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// LoadMessages returns a session's messages in chronological order.
func (s *Store) LoadMessages(sessionID string) ([]history.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, role, content, sources, citations, created_at
		FROM messages WHERE session_id = ? ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []history.Message
	for rows.Next() {
		var (
			m                  history.Message
			role               string
			sources, citations string
		)
		if err := rows.Scan(&m.ID, &role, &m.Content, &sources, &citations, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = history.Role(role)
		if err := unmarshalAnnotations(&m, sources, citations); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

// ListSessions returns all sessions, most recently updated first.
func (s *Store) ListSessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT id, page_url, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.PageURL, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// DeleteSession removes a session and its messages.
func (s *Store) DeleteSession(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func marshalAnnotations(m history.Message) (sources string, citations string, err error) {
	stored := make([]storedSource, len(m.Sources))
	for i, r := range m.Sources {
		stored[i] = storedSource{
			ChunkID:     r.Chunk.ID,
			HeadingPath: r.Chunk.Metadata.HeadingPath,
			Text:        r.Chunk.Text,
			Score:       r.Score,
		}
	}

	srcData, err := json.Marshal(stored)
	if err != nil {
		return "", "", fmt.Errorf("marshalling sources: %w", err)
	}

	spans := m.Citations
	if spans == nil {
		spans = []citation.Span{}
	}
	citData, err := json.Marshal(spans)
	if err != nil {
		return "", "", fmt.Errorf("marshalling citations: %w", err)
	}

	return string(srcData), string(citData), nil
}

func unmarshalAnnotations(m *history.Message, sources, citations string) error {
	var stored []storedSource
	if err := json.Unmarshal([]byte(sources), &stored); err != nil {
		return fmt.Errorf("unmarshalling sources for %s: %w", m.ID, err)
	}
	for _, src := range stored {
		m.Sources = append(m.Sources, retrieval.ScoredResult{
			Chunk: &chunkstore.Chunk{
				ID:   src.ChunkID,
				Text: src.Text,
				Metadata: chunkstore.ChunkMetadata{
					HeadingPath: src.HeadingPath,
					RawText:     src.Text,
				},
			},
			Score: src.Score,
		})
	}

	var spans []citation.Span
	if err := json.Unmarshal([]byte(citations), &spans); err != nil {
		return fmt.Errorf("unmarshalling citations for %s: %w", m.ID, err)
	}
	if len(spans) > 0 {
		m.Citations = spans
	}

	return nil
}
