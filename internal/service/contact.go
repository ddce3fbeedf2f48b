package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=contact.go -destination=mocks/mock_contact.go -package=mocks

// ErrNotFound возвращается, если запись не найдена или принадлежит другому пользователю
var ErrNotFound = errors.New("not found")

// ContactRepository определяет контракт для работы с бд доверенных контактов.
// Все методы ограничены строками одного пользователя.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	GetContactsFromCache(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
	SetContactsCache(ctx context.Context, userID uuid.UUID, contacts []*models.Contact) error
	InvalidateContactsCache(ctx context.Context, userID uuid.UUID) error
}

// ContactService определяет контракт бизнес-логики адресной книги
type ContactService interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContact(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, userID, id uuid.UUID) error
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error)
	CountContacts(ctx context.Context, userID uuid.UUID) (int, error)
}

type contactService struct {
	repo     ContactRepository
	logger   *logrus.Logger
	validate *validator.Validate
}

func NewContactService(repo ContactRepository, logger *logrus.Logger) ContactService {
	return &contactService{
		repo:     repo,
		logger:   logger,
		validate: validator.New(),
	}
}

// contactRules - правила проверки полей контакта после нормализации
type contactRules struct {
	Name         string `validate:"required,max=100"`
	Phone        string `validate:"required,e164"`
	Relationship string `validate:"required,oneof=Partner Parent Sibling Friend Colleague Neighbor Other"`
}

var phoneReplacer = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// NormalizePhone убирает разделители из номера: "+44 7700 900123" -> "+447700900123"
func NormalizePhone(phone string) string {
	return phoneReplacer.Replace(strings.TrimSpace(phone))
}

func (s *contactService) normalize(contact *models.Contact) error {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = NormalizePhone(contact.Phone)
	contact.Relationship = strings.TrimSpace(contact.Relationship)

	rules := contactRules{
		Name:         contact.Name,
		Phone:        contact.Phone,
		Relationship: contact.Relationship,
	}
	if err := s.validate.Struct(rules); err != nil {
		return fmt.Errorf("%w: %v", safety.ErrValidation, err)
	}
	return nil
}

// CreateContact создает доверенный контакт
func (s *contactService) CreateContact(ctx context.Context, contact *models.Contact) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "CreateContact",
		"user_id": contact.UserID,
	})
	log.Info("Attempting to create a trusted contact")

	if contact.UserID == uuid.Nil {
		return safety.ErrUnauthenticated
	}
	if err := s.normalize(contact); err != nil {
		log.WithError(err).Warn("Contact validation failed")
		return err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		log.WithError(err).Error("Failed to create contact in repository")
		return fmt.Errorf("service: could not create contact: %w", err)
	}
	s.invalidate(ctx, log, contact.UserID)

	log.WithField("contact_id", contact.ID).Info("Contact created successfully")
	return nil
}

// GetContact получает контакт пользователя по ID
func (s *contactService) GetContact(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "GetContact",
		"user_id":    userID,
		"contact_id": id,
	})

	contact, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get contact in repository")
		return nil, fmt.Errorf("service: could not get contact: %w", err)
	}
	return contact, nil
}

// UpdateContact обновляет существующий контакт
func (s *contactService) UpdateContact(ctx context.Context, contact *models.Contact) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "UpdateContact",
		"user_id":    contact.UserID,
		"contact_id": contact.ID,
	})
	log.Info("Attempting to update a trusted contact")

	if err := s.normalize(contact); err != nil {
		log.WithError(err).Warn("Contact validation failed")
		return err
	}

	existing, err := s.repo.GetByID(ctx, contact.UserID, contact.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent contact")
		return fmt.Errorf("service: contact %s not found for update: %w", contact.ID, err)
	}

	existing.Name = contact.Name
	existing.Phone = contact.Phone
	existing.Relationship = contact.Relationship

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update contact in repository")
		return fmt.Errorf("service: could not update contact: %w", err)
	}
	*contact = *existing
	s.invalidate(ctx, log, contact.UserID)

	log.Info("Contact updated successfully")
	return nil
}

// DeleteContact удаляет контакт
func (s *contactService) DeleteContact(ctx context.Context, userID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "DeleteContact",
		"user_id":    userID,
		"contact_id": id,
	})
	log.Info("Attempting to delete a trusted contact")

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		log.WithError(err).Warn("Failed to delete contact in repository")
		return fmt.Errorf("service: could not delete contact: %w", err)
	}
	s.invalidate(ctx, log, userID)

	log.Info("Contact deleted successfully")
	return nil
}

// ListContacts возвращает контакты пользователя в порядке добавления; сначала смотрим в кеш
func (s *contactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "ListContacts",
		"user_id": userID,
	})

	cached, err := s.repo.GetContactsFromCache(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to read contacts from cache")
	}
	if cached != nil {
		log.Debug("Contacts served from cache")
		return cached, nil
	}

	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts from repository")
		return nil, fmt.Errorf("service: could not list contacts: %w", err)
	}

	if err := s.repo.SetContactsCache(ctx, userID, contacts); err != nil {
		log.WithError(err).Warn("Failed to cache contacts")
	}

	log.WithField("count", len(contacts)).Info("Contacts listed successfully")
	return contacts, nil
}

// CountContacts возвращает число контактов; используется как предусловие таймера
func (s *contactService) CountContacts(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service: could not count contacts: %w", err)
	}
	return count, nil
}

func (s *contactService) invalidate(ctx context.Context, log *logrus.Entry, userID uuid.UUID) {
	if err := s.repo.InvalidateContactsCache(ctx, userID); err != nil {
		log.WithError(err).Warn("Failed to invalidate contacts cache")
	}
}
