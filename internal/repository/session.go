package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/shenikar/safety_guardian/internal/service"
	"github.com/shenikar/safety_guardian/pkg/postgres"
)

// oneActivePerUser - частичный уникальный индекс из миграции 000001
const oneActivePerUser = "alert_sessions_one_active_per_user"

const sessionColumns = `
	id,
	user_id,
	kind,
	status,
	started_at,
	duration_seconds,
	expires_at,
	last_latitude,
	last_longitude,
	last_accuracy,
	last_captured_at,
	ended_at`

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) service.SessionRepository {
	return &SessionRepository{db: db}
}

// Create сохраняет новую активную сессию; вторая активная сессия пользователя отклоняется индексом
func (r *SessionRepository) Create(ctx context.Context, session *models.AlertSession) error {
	query := `
		INSERT INTO alert_sessions (id, user_id, kind, status, started_at, duration_seconds, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Kind,
		session.Status,
		session.StartedAt,
		session.DurationSeconds,
		session.ExpiresAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, oneActivePerUser) {
			return fmt.Errorf("%w: user %s already has an active session", safety.ErrConflict, session.UserID)
		}
		return fmt.Errorf("failed to create alert session: %w", err)
	}
	return nil
}

// UpdateStatus записывает терминальный статус, только пока сессия активна.
// Если сессию уже завершили, в session подставляется сохранённое состояние.
func (r *SessionRepository) UpdateStatus(ctx context.Context, session *models.AlertSession) error {
	query := `
		UPDATE alert_sessions SET
			status = $1,
			ended_at = $2,
			updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND status = 'active';
	`
	cmdTag, err := r.db.Exec(ctx, query, session.Status, session.EndedAt, session.ID, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to update alert session status: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var (
		status  models.SessionStatus
		endedAt *time.Time
	)
	err = r.db.QueryRow(ctx,
		`SELECT status, ended_at FROM alert_sessions WHERE id = $1 AND user_id = $2;`,
		session.ID, session.UserID,
	).Scan(&status, &endedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("alert session %s: %w", session.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to read alert session status: %w", err)
	}

	session.Status = status
	session.EndedAt = endedAt
	return fmt.Errorf("%w: alert session %s is already %s", safety.ErrConflict, session.ID, status)
}

// SaveLocation добавляет точку в трек и обновляет последнюю позицию, если она не старее сохранённой
func (r *SessionRepository) SaveLocation(ctx context.Context, session *models.AlertSession, loc models.Location) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin location transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insert := `
		INSERT INTO session_locations (session_id, user_id, latitude, longitude, accuracy, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, insert,
		session.ID,
		session.UserID,
		loc.Latitude,
		loc.Longitude,
		loc.Accuracy,
		loc.CapturedAt,
	); err != nil {
		return fmt.Errorf("failed to save session location: %w", err)
	}

	update := `
		UPDATE alert_sessions SET
			last_latitude = $1,
			last_longitude = $2,
			last_accuracy = $3,
			last_captured_at = $4,
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
			AND (last_captured_at IS NULL OR last_captured_at <= $4);
	`
	if _, err := tx.Exec(ctx, update,
		loc.Latitude,
		loc.Longitude,
		loc.Accuracy,
		loc.CapturedAt,
		session.ID,
		session.UserID,
	); err != nil {
		return fmt.Errorf("failed to update last location: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit location transaction: %w", err)
	}
	return nil
}

// GetActive возвращает активную сессию пользователя или nil
func (r *SessionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*models.AlertSession, error) {
	query := `SELECT` + sessionColumns + `
		FROM alert_sessions
		WHERE user_id = $1 AND status = 'active';
	`
	session, err := scanSession(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return session, nil
}

// ListActive возвращает все активные сессии; используется при старте процесса
func (r *SessionRepository) ListActive(ctx context.Context) ([]*models.AlertSession, error) {
	query := `SELECT` + sessionColumns + `
		FROM alert_sessions
		WHERE status = 'active'
		ORDER BY started_at;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return collectSessions(rows)
}

// ListByUser возвращает историю сессий пользователя с пагинацией
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.AlertSession, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := `SELECT` + sessionColumns + `
		FROM alert_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return collectSessions(rows)
}

// ListLocations возвращает трек сессии; чужая или несуществующая сессия - ErrNotFound
func (r *SessionRepository) ListLocations(ctx context.Context, userID, sessionID uuid.UUID) ([]*models.LocationPoint, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alert_sessions WHERE id = $1 AND user_id = $2);`,
		sessionID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check session owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("alert session %s: %w", sessionID, service.ErrNotFound)
	}

	query := `
		SELECT id, session_id, user_id, latitude, longitude, accuracy, captured_at
		FROM session_locations
		WHERE session_id = $1 AND user_id = $2
		ORDER BY captured_at, id;
	`
	rows, err := r.db.Query(ctx, query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session locations: %w", err)
	}
	defer rows.Close()

	points := make([]*models.LocationPoint, 0)
	for rows.Next() {
		p := &models.LocationPoint{}
		if err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.UserID,
			&p.Latitude,
			&p.Longitude,
			&p.Accuracy,
			&p.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error location iteration: %w", err)
	}
	return points, nil
}

// PurgeEndedBefore удаляет завершённые сессии (трек удаляется каскадом)
func (r *SessionRepository) PurgeEndedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM alert_sessions
		WHERE status <> 'active' AND ended_at < $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge alert sessions: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func collectSessions(rows pgx.Rows) ([]*models.AlertSession, error) {
	defer rows.Close()

	sessions := make([]*models.AlertSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error session iteration: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*models.AlertSession, error) {
	var (
		s                  models.AlertSession
		lat, lon, accuracy *float64
		capturedAt         *time.Time
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Kind,
		&s.Status,
		&s.StartedAt,
		&s.DurationSeconds,
		&s.ExpiresAt,
		&lat,
		&lon,
		&accuracy,
		&capturedAt,
		&s.EndedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lon != nil && capturedAt != nil {
		s.LastLocation = &models.Location{
			Latitude:   *lat,
			Longitude:  *lon,
			CapturedAt: capturedAt.UTC(),
		}
		if accuracy != nil {
			s.LastLocation.Accuracy = *accuracy
		}
	}
	s.StartedAt = s.StartedAt.UTC()
	return &s, nil
}
