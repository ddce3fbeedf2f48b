package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=safety.go -destination=mocks/mock_safety.go -package=mocks

// SessionRepository определяет контракт для работы с бд тревожных сессий
type SessionRepository interface {
	safety.SessionStore
	GetActive(ctx context.Context, userID uuid.UUID) (*models.AlertSession, error)
	ListActive(ctx context.Context) ([]*models.AlertSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.AlertSession, error)
	ListLocations(ctx context.Context, userID, sessionID uuid.UUID) ([]*models.LocationPoint, error)
	PurgeEndedBefore(ctx context.Context, before time.Time) (int64, error)
}

// LocationSink принимает позиции, присланные устройством
type LocationSink interface {
	StoreLocation(ctx context.Context, userID uuid.UUID, loc models.Location) error
}

// Recorder - метрики жизненного цикла плюс число активных сессий
type Recorder interface {
	safety.Recorder
	SetActiveSessions(n int)
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(models.SessionKind) {}
func (nopRecorder) SessionEnded(models.SessionKind, models.SessionStatus) {}
func (nopRecorder) CollaboratorError(string) {}
func (nopRecorder) SetActiveSessions(int) {}

// SafetyService определяет контракт для SOS, таймеров безопасности и передачи геопозиции
type SafetyService interface {
	StartSOS(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error)
	StartCheckIn(ctx context.Context, userID uuid.UUID, durationSeconds int) (*safety.Snapshot, error)
	Status(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error)
	Resolve(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error)
	ReportLocation(ctx context.Context, userID uuid.UUID, loc models.Location) (bool, error)
	History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.AlertSession, error)
	Trail(ctx context.Context, userID, sessionID uuid.UUID) ([]*models.LocationPoint, error)
	TickAll(ctx context.Context)
	RefreshAll(ctx context.Context)
	Restore(ctx context.Context) error
	PurgeHistory(ctx context.Context) (int64, error)
}

// SafetyDependencies - коллабораторы сервиса
type SafetyDependencies struct {
	Repo     SessionRepository
	Contacts safety.ContactCounter
	Notifier safety.Notifier
	Locator  safety.LocationProvider
	Sink     LocationSink
	Recorder Recorder
	Clock    safety.Clock
	Logger   *logrus.Logger
}

// DefaultManagerIdleTTL - сколько держать в памяти менеджер без активной сессии
const DefaultManagerIdleTTL = 30 * time.Minute

// SafetyOptions - настройки таймеров и хранения истории
type SafetyOptions struct {
	Settings         safety.Settings
	HistoryRetention time.Duration
	ManagerIdleTTL   time.Duration
}

type registryEntry struct {
	manager  *safety.Manager
	lastSeen time.Time
}

type safetyService struct {
	mu       sync.Mutex
	managers map[uuid.UUID]*registryEntry

	deps SafetyDependencies
	opts SafetyOptions
}

func NewSafetyService(deps SafetyDependencies, opts SafetyOptions) SafetyService {
	if deps.Clock == nil {
		deps.Clock = safety.SystemClock{}
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if opts.ManagerIdleTTL <= 0 {
		opts.ManagerIdleTTL = DefaultManagerIdleTTL
	}
	return &safetyService{
		managers: make(map[uuid.UUID]*registryEntry),
		deps:     deps,
		opts:     opts,
	}
}

// StartSOS запускает SOS для пользователя
func (s *safetyService) StartSOS(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error) {
	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := m.StartSOS(ctx); err != nil {
		return nil, fmt.Errorf("service: could not start SOS: %w", err)
	}
	return m.Tick(ctx, s.deps.Clock.Now())
}

// StartCheckIn запускает таймер безопасности
func (s *safetyService) StartCheckIn(ctx context.Context, userID uuid.UUID, durationSeconds int) (*safety.Snapshot, error) {
	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := m.StartCheckIn(ctx, durationSeconds); err != nil {
		return nil, fmt.Errorf("service: could not start check-in: %w", err)
	}
	return m.Tick(ctx, s.deps.Clock.Now())
}

// Status выполняет тик и возвращает состояние последней сессии пользователя
func (s *safetyService) Status(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error) {
	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.Tick(ctx, s.deps.Clock.Now())
}

// Resolve отмечает пользователя в безопасности
func (s *safetyService) Resolve(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error) {
	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.Resolve(ctx); err != nil {
		return nil, fmt.Errorf("service: could not resolve session: %w", err)
	}
	return m.Tick(ctx, s.deps.Clock.Now())
}

// Cancel отменяет активную сессию
func (s *safetyService) Cancel(ctx context.Context, userID uuid.UUID) (*safety.Snapshot, error) {
	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("service: could not cancel session: %w", err)
	}
	return m.Tick(ctx, s.deps.Clock.Now())
}

// ReportLocation сохраняет позицию устройства и, если есть активная сессия, обновляет её.
// Время съёмки проставляется здесь один раз: без него или из будущего берётся текущее время.
func (s *safetyService) ReportLocation(ctx context.Context, userID uuid.UUID, loc models.Location) (bool, error) {
	log := s.deps.Logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "ReportLocation",
		"user_id": userID,
	})

	m, err := s.managerFor(ctx, userID)
	if err != nil {
		return false, err
	}

	if now := s.deps.Clock.Now(); loc.CapturedAt.IsZero() || loc.CapturedAt.After(now) {
		loc.CapturedAt = now
	}
	if s.deps.Sink != nil {
		if err := s.deps.Sink.StoreLocation(ctx, userID, loc); err != nil {
			log.WithError(err).Warn("Failed to store latest location")
			s.deps.Recorder.CollaboratorError("location")
		}
	}
	return m.RefreshLocation(ctx, loc), nil
}

// History возвращает сессии пользователя с пагинацией, новые первыми
func (s *safetyService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.AlertSession, error) {
	if userID == uuid.Nil {
		return nil, safety.ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.deps.Logger.WithFields(logrus.Fields{
		"service":   "safety",
		"method":    "History",
		"user_id":   userID,
		"page":      page,
		"page_size": pageSize,
	})

	sessions, err := s.deps.Repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list sessions from repository")
		return nil, fmt.Errorf("service: could not list sessions: %w", err)
	}
	return sessions, nil
}

// Trail возвращает трек позиций сессии пользователя в хронологическом порядке
func (s *safetyService) Trail(ctx context.Context, userID, sessionID uuid.UUID) ([]*models.LocationPoint, error) {
	if userID == uuid.Nil {
		return nil, safety.ErrUnauthenticated
	}
	points, err := s.deps.Repo.ListLocations(ctx, userID, sessionID)
	if err != nil {
		s.deps.Logger.WithFields(logrus.Fields{
			"service":    "safety",
			"method":     "Trail",
			"user_id":    userID,
			"session_id": sessionID,
		}).WithError(err).Warn("Failed to list session locations")
		return nil, fmt.Errorf("service: could not list session locations: %w", err)
	}
	return points, nil
}

// TickAll тикает все активные сессии, чтобы таймер истекал без опроса клиентом,
// и выгружает менеджеры, простаивающие без активной сессии дольше ManagerIdleTTL
func (s *safetyService) TickAll(ctx context.Context) {
	now := s.deps.Clock.Now()
	active := 0
	for _, m := range s.snapshotManagers() {
		if !m.Active() {
			continue
		}
		snap, err := m.Tick(ctx, now)
		if err == nil && snap.Session.IsActive() {
			active++
		}
	}
	s.deps.Recorder.SetActiveSessions(active)
	s.evictIdle(now)
}

func (s *safetyService) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for userID, e := range s.managers {
		if now.Sub(e.lastSeen) < s.opts.ManagerIdleTTL || e.manager.Active() {
			continue
		}
		delete(s.managers, userID)
		evicted++
	}
	if evicted > 0 {
		s.deps.Logger.WithFields(logrus.Fields{
			"service": "safety",
			"method":  "TickAll",
			"evicted": evicted,
		}).Debug("Idle session managers evicted")
	}
}

// RefreshAll запрашивает свежую позицию для каждой активной сессии
func (s *safetyService) RefreshAll(ctx context.Context) {
	for _, m := range s.snapshotManagers() {
		if ctx.Err() != nil {
			return
		}
		if m.Active() {
			m.RequestLocation(ctx)
		}
	}
}

// Restore поднимает активные сессии из бд после рестарта
func (s *safetyService) Restore(ctx context.Context) error {
	sessions, err := s.deps.Repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("service: could not load active sessions: %w", err)
	}

	now := s.deps.Clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range sessions {
		e, ok := s.managers[session.UserID]
		if !ok {
			e = &registryEntry{manager: s.newManager(session.UserID)}
			s.managers[session.UserID] = e
		}
		e.lastSeen = now
		e.manager.Restore(session)
	}

	s.deps.Logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "Restore",
		"count":   len(sessions),
	}).Info("Active sessions restored")
	return nil
}

// PurgeHistory удаляет завершённые сессии старше срока хранения
func (s *safetyService) PurgeHistory(ctx context.Context) (int64, error) {
	if s.opts.HistoryRetention <= 0 {
		return 0, nil
	}
	before := s.deps.Clock.Now().Add(-s.opts.HistoryRetention)
	n, err := s.deps.Repo.PurgeEndedBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("service: could not purge history: %w", err)
	}

	s.deps.Logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "PurgeHistory",
		"before":  before,
		"deleted": n,
	}).Info("Session history purged")
	return n, nil
}

// managerFor возвращает менеджер пользователя, при первом обращении подтягивая активную сессию из бд
func (s *safetyService) managerFor(ctx context.Context, userID uuid.UUID) (*safety.Manager, error) {
	if userID == uuid.Nil {
		return nil, safety.ErrUnauthenticated
	}

	s.mu.Lock()
	e, ok := s.managers[userID]
	if ok {
		e.lastSeen = s.deps.Clock.Now()
	}
	s.mu.Unlock()
	if ok {
		return e.manager, nil
	}

	active, err := s.deps.Repo.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not load active session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.managers[userID]; ok {
		e.lastSeen = s.deps.Clock.Now()
		return e.manager, nil
	}
	m := s.newManager(userID)
	m.Restore(active)
	s.managers[userID] = &registryEntry{manager: m, lastSeen: s.deps.Clock.Now()}
	return m, nil
}

// newManager вызывается под s.mu
func (s *safetyService) newManager(userID uuid.UUID) *safety.Manager {
	return safety.NewManager(userID, safety.Dependencies{
		Store:    s.deps.Repo,
		Contacts: s.deps.Contacts,
		Notifier: s.deps.Notifier,
		Locator:  s.deps.Locator,
		Clock:    s.deps.Clock,
		Recorder: s.deps.Recorder,
		Logger:   s.deps.Logger,
	}, s.opts.Settings)
}

func (s *safetyService) snapshotManagers() []*safety.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	managers := make([]*safety.Manager, 0, len(s.managers))
	for _, e := range s.managers {
		managers = append(managers, e.manager)
	}
	return managers
}
