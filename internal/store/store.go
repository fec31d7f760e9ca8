package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scribe/internal/config"
	"scribe/internal/session"
)

// ErrLiveSessionExists indicates a calendar event already has a session that
// has not failed; callers must remove the existing bot before adding another.
var ErrLiveSessionExists = errors.New("a live session already exists for this event")

// Store manages bot-session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new session. An empty ID is replaced with a fresh UUID.
// At most one live session may exist per calendar event; a second insert for
// the same event fails with ErrLiveSessionExists.
func (s *Store) Create(ctx context.Context, sess *session.Session) (*session.Session, error) {
	if sess == nil {
		return nil, errors.New("session is nil")
	}
	if sess.CalendarEventID == "" {
		return nil, errors.New("calendar event id is required")
	}

	existing, err := s.GetLiveByEventID(ctx, sess.CalendarEventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: event %s has session %s in status %s",
			ErrLiveSessionExists, sess.CalendarEventID, existing.ID, existing.Status)
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Status == "" {
		sess.Status = session.StatusScheduled
	}
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO bot_sessions (
            id, calendar_event_id, provider_id, status, meeting_url,
            project_id, organization_id, user_id, error_message, recording_id,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.CalendarEventID,
		nullableString(sess.ProviderID),
		sess.Status,
		nullableString(sess.MeetingURL),
		nullableString(sess.ProjectID),
		nullableString(sess.OrganizationID),
		nullableString(sess.UserID),
		nullableString(sess.ErrorMessage),
		nullableString(sess.RecordingID),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.GetByID(ctx, sess.ID)
}

// GetByID fetches a session by identifier. Missing sessions return nil, nil.
func (s *Store) GetByID(ctx context.Context, id string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM bot_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// GetLiveByEventID returns the current non-failed session for a calendar
// event, or nil when the event has no live session.
func (s *Store) GetLiveByEventID(ctx context.Context, eventID string) (*session.Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM bot_sessions
         WHERE calendar_event_id = ? AND status != ?
         ORDER BY created_at DESC LIMIT 1`,
		eventID,
		session.StatusFailed,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get live session: %w", err)
	}
	return sess, nil
}

// LiveByEventID returns the live session for every calendar event, keyed by
// event id. This is the map the meeting matcher consumes.
func (s *Store) LiveByEventID(ctx context.Context) (map[string]*session.Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM bot_sessions WHERE status != ? ORDER BY created_at`,
		session.StatusFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("query live sessions: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[string]*session.Session)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		byEvent[sess.CalendarEventID] = sess
	}
	return byEvent, rows.Err()
}

// List returns sessions filtered by status set (or all sessions when no
// status is provided), ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...session.Status) ([]*session.Session, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + sessionColumns + ` FROM bot_sessions`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Update persists changes to an existing session.
func (s *Store) Update(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	sess.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE bot_sessions
         SET calendar_event_id = ?, provider_id = ?, status = ?, meeting_url = ?,
             project_id = ?, organization_id = ?, user_id = ?, error_message = ?,
             recording_id = ?, updated_at = ?
         WHERE id = ?`,
		sess.CalendarEventID,
		nullableString(sess.ProviderID),
		sess.Status,
		nullableString(sess.MeetingURL),
		nullableString(sess.ProjectID),
		nullableString(sess.OrganizationID),
		nullableString(sess.UserID),
		nullableString(sess.ErrorMessage),
		nullableString(sess.RecordingID),
		sess.UpdatedAt.Format(time.RFC3339Nano),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", sess.ID)
	}
	return nil
}

// MarkStatus transitions a session to the given status.
func (s *Store) MarkStatus(ctx context.Context, id string, status session.Status) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE bot_sessions SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// MarkFailed transitions a session to failed with the given reason.
func (s *Store) MarkFailed(ctx context.Context, id, reason string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE bot_sessions SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		session.StatusFailed,
		nullableString(reason),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

const sessionColumns = "id, calendar_event_id, provider_id, status, meeting_url, project_id, organization_id, user_id, error_message, recording_id, created_at, updated_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*session.Session, error) {
	var (
		id             string
		eventID        string
		providerID     sql.NullString
		statusStr      string
		meetingURL     sql.NullString
		projectID      sql.NullString
		organizationID sql.NullString
		userID         sql.NullString
		errorMessage   sql.NullString
		recordingID    sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&eventID,
		&providerID,
		&statusStr,
		&meetingURL,
		&projectID,
		&organizationID,
		&userID,
		&errorMessage,
		&recordingID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sess := &session.Session{
		ID:              id,
		CalendarEventID: eventID,
		ProviderID:      providerID.String,
		Status:          session.Status(statusStr),
		MeetingURL:      meetingURL.String,
		ProjectID:       projectID.String,
		OrganizationID:  organizationID.String,
		UserID:          userID.String,
		ErrorMessage:    errorMessage.String,
		RecordingID:     recordingID.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		sess.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		sess.UpdatedAt = updated
	}
	return sess, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
