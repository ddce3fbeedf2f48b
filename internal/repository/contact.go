package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/service"
)

type ContactRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewContactRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.ContactRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ContactRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает доверенный контакт в бд
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO trusted_contacts (user_id, name, phone, relationship)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Relationship,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// GetByID возвращает контакт пользователя по его UUID
func (r *ContactRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `
		SELECT id, user_id, name, phone, relationship, created_at, updated_at
		FROM trusted_contacts
		WHERE id = $1 AND user_id = $2;
	`
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Phone,
		&contact.Relationship,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contact with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact by id: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE trusted_contacts SET
			name = $1,
			phone = $2,
			relationship = $3,
			updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		contact.Name,
		contact.Phone,
		contact.Relationship,
		contact.ID,
		contact.UserID,
	).Scan(&contact.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("contact with id %s not found for update: %w", contact.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// Delete удаляет контакт пользователя
func (r *ContactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM trusted_contacts WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact with id %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}

// ListByUser возвращает контакты пользователя в порядке добавления
func (r *ContactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT id, user_id, name, phone, relationship, created_at, updated_at
		FROM trusted_contacts
		WHERE user_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		contact := &models.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Name,
			&contact.Phone,
			&contact.Relationship,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return contacts, nil
}

// CountByUser возвращает количество контактов пользователя
func (r *ContactRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trusted_contacts WHERE user_id = $1;`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// GetContactsFromCache пытается получить список контактов из Redis; промах - (nil, nil)
func (r *ContactRepository) GetContactsFromCache(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	val, err := r.redisClient.Get(ctx, contactsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contacts from cache: %w", err)
	}

	contacts := make([]*models.Contact, 0)
	if err := json.Unmarshal(val, &contacts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts from cache: %w", err)
	}
	return contacts, nil
}

// SetContactsCache сохраняет список контактов в Redis
func (r *ContactRepository) SetContactsCache(ctx context.Context, userID uuid.UUID, contacts []*models.Contact) error {
	if contacts == nil {
		contacts = make([]*models.Contact, 0)
	}
	val, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, contactsKey(userID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set contacts in cache: %w", err)
	}
	return nil
}

// InvalidateContactsCache удаляет список контактов из Redis кэша
func (r *ContactRepository) InvalidateContactsCache(ctx context.Context, userID uuid.UUID) error {
	if err := r.redisClient.Del(ctx, contactsKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate contacts cache: %w", err)
	}
	return nil
}

func contactsKey(userID uuid.UUID) string {
	return fmt.Sprintf("contacts:%s", userID.String())
}
