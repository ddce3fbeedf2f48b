package safety

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// MaxCheckInSeconds - верхняя граница длительности таймера (24 часа)
	MaxCheckInSeconds = 24 * 60 * 60
	// LowTimeThreshold - порог, после которого таймер считается почти истёкшим
	LowTimeThreshold = 5 * time.Minute
	// DefaultLocationTimeout ограничивает запрос позиции, если в Settings не задано иное
	DefaultLocationTimeout = 10 * time.Second
)

// Dependencies - внешние коллабораторы менеджера
type Dependencies struct {
	Store    SessionStore
	Contacts ContactCounter
	Notifier Notifier
	Locator  LocationProvider
	Clock    Clock
	Recorder Recorder
	Logger   *logrus.Logger
}

// Settings - параметры таймера и запроса позиции
type Settings struct {
	// AllowedCheckInSeconds - допустимые длительности; пустой список допускает любую в (0, MaxCheckInSeconds]
	AllowedCheckInSeconds []int
	LocationTimeout       time.Duration
}

// Snapshot - состояние сессии на момент тика
type Snapshot struct {
	Session          *models.AlertSession `json:"session"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	ElapsedSeconds   int                  `json:"elapsed_seconds"`
	LowTime          bool                 `json:"low_time"`
}

// Manager владеет сессией одного пользователя и сериализует все переходы состояния.
// Единственная активная сессия на пользователя дублируется уникальным индексом в хранилище.
// События публикуются в том порядке, в котором произошли переходы.
type Manager struct {
	mu      sync.Mutex
	userID  uuid.UUID
	current *models.AlertSession
	issued  uint64 // под mu

	eventsMu sync.Mutex
	turn     *sync.Cond
	served   uint64 // под eventsMu

	store    SessionStore
	contacts ContactCounter
	notifier Notifier
	locator  LocationProvider
	clock    Clock
	recorder Recorder
	logger   *logrus.Logger

	allowed         map[int]struct{}
	locationTimeout time.Duration
}

func NewManager(userID uuid.UUID, deps Dependencies, settings Settings) *Manager {
	m := &Manager{
		userID:          userID,
		store:           deps.Store,
		contacts:        deps.Contacts,
		notifier:        deps.Notifier,
		locator:         deps.Locator,
		clock:           deps.Clock,
		recorder:        deps.Recorder,
		logger:          deps.Logger,
		allowed:         make(map[int]struct{}, len(settings.AllowedCheckInSeconds)),
		locationTimeout: settings.LocationTimeout,
	}
	m.turn = sync.NewCond(&m.eventsMu)
	if m.clock == nil {
		m.clock = SystemClock{}
	}
	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}
	if m.logger == nil {
		m.logger = logrus.StandardLogger()
	}
	if m.locationTimeout <= 0 {
		m.locationTimeout = DefaultLocationTimeout
	}
	for _, d := range settings.AllowedCheckInSeconds {
		m.allowed[d] = struct{}{}
	}
	return m
}

// UserID возвращает владельца менеджера
func (m *Manager) UserID() uuid.UUID {
	return m.userID
}

// Restore подхватывает сессию из хранилища после рестарта процесса
func (m *Manager) Restore(session *models.AlertSession) {
	if session == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.current = session.Clone()
	}
}

// Current возвращает копию последней сессии (активной или завершённой)
func (m *Manager) Current() *models.AlertSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Active сообщает, есть ли сейчас активная сессия
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.IsActive()
}

// StartSOS запускает SOS-сессию без ограничения по времени. Позиция запрашивается до
// захвата мьютекса и попадает уже в событие started.
func (m *Manager) StartSOS(ctx context.Context) (uuid.UUID, error) {
	log := m.entry("StartSOS")

	m.mu.Lock()
	err := m.ensureIdle()
	m.mu.Unlock()
	if err != nil {
		log.WithError(err).Warn("SOS rejected")
		return uuid.Nil, err
	}

	fix := m.fetchLocation(ctx)

	m.mu.Lock()
	if err := m.ensureIdle(); err != nil {
		m.mu.Unlock()
		log.WithError(err).Warn("SOS rejected")
		return uuid.Nil, err
	}

	session := &models.AlertSession{
		ID:        uuid.New(),
		UserID:    m.userID,
		Kind:      models.SessionKindSOS,
		Status:    models.SessionStatusActive,
		StartedAt: m.clock.Now(),
	}
	if err := m.begin(ctx, session); err != nil {
		m.mu.Unlock()
		log.WithError(err).Error("Failed to persist SOS session")
		return uuid.Nil, err
	}
	located := fix != nil && m.applyLocation(session, *fix)
	started := session.Clone()
	ticket := m.ticket()
	m.mu.Unlock()

	log.WithField("session_id", started.ID).Info("SOS session started")
	m.recorder.SessionStarted(started.Kind)

	if located {
		m.saveLocation(ctx, started, *started.LastLocation)
	}
	m.publish(ctx, ticket, started, models.SessionEventStarted)
	return started.ID, nil
}

// StartCheckIn запускает таймер безопасности на durationSeconds секунд
func (m *Manager) StartCheckIn(ctx context.Context, durationSeconds int) (uuid.UUID, error) {
	log := m.entry("StartCheckIn").WithField("duration_seconds", durationSeconds)

	m.mu.Lock()
	if err := m.ensureIdle(); err != nil {
		m.mu.Unlock()
		log.WithError(err).Warn("Check-in rejected")
		return uuid.Nil, err
	}
	if err := m.validateDuration(durationSeconds); err != nil {
		m.mu.Unlock()
		log.WithError(err).Warn("Check-in rejected")
		return uuid.Nil, err
	}

	count, err := m.contacts.CountContacts(ctx, m.userID)
	if err != nil {
		m.mu.Unlock()
		log.WithError(err).Error("Failed to count trusted contacts")
		return uuid.Nil, fmt.Errorf("safety: could not count contacts: %w", err)
	}
	if count == 0 {
		m.mu.Unlock()
		log.Warn("Check-in rejected: no trusted contacts")
		return uuid.Nil, fmt.Errorf("%w: at least one trusted contact is required", ErrPrecondition)
	}

	now := m.clock.Now()
	duration := durationSeconds
	expiresAt := now.Add(time.Duration(durationSeconds) * time.Second)
	session := &models.AlertSession{
		ID:              uuid.New(),
		UserID:          m.userID,
		Kind:            models.SessionKindCheckIn,
		Status:          models.SessionStatusActive,
		StartedAt:       now,
		DurationSeconds: &duration,
		ExpiresAt:       &expiresAt,
	}
	if err := m.begin(ctx, session); err != nil {
		m.mu.Unlock()
		log.WithError(err).Error("Failed to persist check-in session")
		return uuid.Nil, err
	}
	started := session.Clone()
	ticket := m.ticket()
	m.mu.Unlock()

	log.WithFields(logrus.Fields{
		"session_id": started.ID,
		"expires_at": expiresAt,
	}).Info("Check-in timer started")
	m.recorder.SessionStarted(started.Kind)

	m.publish(ctx, ticket, started, models.SessionEventStarted)
	return started.ID, nil
}

// Tick пересчитывает оставшееся/прошедшее время и переводит истёкший таймер в expired.
// Повторные тики после истечения ничего не меняют.
func (m *Manager) Tick(ctx context.Context, now time.Time) (*Snapshot, error) {
	m.mu.Lock()
	s := m.current
	if s == nil {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	var (
		expired *models.AlertSession
		ticket  uint64
	)
	if s.IsActive() && s.Kind == models.SessionKindCheckIn && s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		if m.transition(ctx, s, models.SessionStatusExpired, now) {
			expired = s.Clone()
			ticket = m.ticket()
		}
	}
	snap := snapshotAt(s, now)
	m.mu.Unlock()

	if expired != nil {
		m.entry("Tick").WithField("session_id", expired.ID).Warn("Check-in timer expired, alerting contacts")
		m.recorder.SessionEnded(expired.Kind, expired.Status)
		m.publish(ctx, ticket, expired, models.SessionEventExpired)
	}
	return snap, nil
}

// RefreshLocation сохраняет позицию в активной сессии. Для неактивной сессии, позиции без
// времени съёмки, из будущего или не новее сохранённой возвращает false; статус сессии
// при этом не меняется.
func (m *Manager) RefreshLocation(ctx context.Context, reading models.Location) bool {
	log := m.entry("RefreshLocation")

	m.mu.Lock()
	s := m.current
	if !s.IsActive() {
		m.mu.Unlock()
		log.Debug("No active session, location discarded")
		return false
	}
	if !m.applyLocation(s, reading) {
		m.mu.Unlock()
		log.WithField("captured_at", reading.CapturedAt).Debug("Stale or undated location discarded")
		return false
	}
	session := s.Clone()
	m.mu.Unlock()

	m.saveLocation(ctx, session, reading)
	return true
}

// RequestLocation запрашивает позицию у провайдера с таймаутом.
// При ошибке или таймауте остаётся предыдущая позиция.
func (m *Manager) RequestLocation(ctx context.Context) {
	if fix := m.fetchLocation(ctx); fix != nil {
		m.RefreshLocation(ctx, *fix)
	}
}

func (m *Manager) fetchLocation(ctx context.Context) *models.Location {
	if m.locator == nil {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, m.locationTimeout)
	defer cancel()

	loc, err := m.locator.CurrentLocation(reqCtx, m.userID)
	if err != nil {
		m.entry("RequestLocation").WithError(fmt.Errorf("%w: location: %v", ErrProvider, err)).
			Warn("Location unavailable, keeping previous fix")
		m.recorder.CollaboratorError("location")
		return nil
	}
	return loc
}

// applyLocation вызывается под мьютексом. Время съёмки не переписывается: повторное чтение
// той же позиции у провайдера ничего не меняет.
func (m *Manager) applyLocation(s *models.AlertSession, reading models.Location) bool {
	if reading.CapturedAt.IsZero() || reading.CapturedAt.After(m.clock.Now()) {
		return false
	}
	if s.LastLocation != nil && !reading.CapturedAt.After(s.LastLocation.CapturedAt) {
		return false
	}
	loc := reading
	s.LastLocation = &loc
	return true
}

func (m *Manager) saveLocation(ctx context.Context, session *models.AlertSession, loc models.Location) {
	if err := m.store.SaveLocation(ctx, session, loc); err != nil {
		m.entry("saveLocation").WithError(err).WithField("session_id", session.ID).Warn("Failed to persist location")
		m.recorder.CollaboratorError("store")
	}
}

// Resolve отмечает пользователя в безопасности
func (m *Manager) Resolve(ctx context.Context) error {
	return m.finish(ctx, "Resolve", models.SessionStatusResolved, models.SessionEventResolved)
}

// Cancel отменяет активную сессию
func (m *Manager) Cancel(ctx context.Context) error {
	return m.finish(ctx, "Cancel", models.SessionStatusCancelled, models.SessionEventCancelled)
}

func (m *Manager) finish(ctx context.Context, method string, status models.SessionStatus, event models.SessionEvent) error {
	log := m.entry(method)

	m.mu.Lock()
	s := m.current
	if !s.IsActive() {
		m.mu.Unlock()
		log.Warn("No active session to finish")
		return ErrNoActiveSession
	}
	if !m.transition(ctx, s, status, m.clock.Now()) {
		m.mu.Unlock()
		log.WithField("session_id", s.ID).Warn("Session was already finished elsewhere")
		return ErrNoActiveSession
	}
	session := s.Clone()
	ticket := m.ticket()
	m.mu.Unlock()

	log.WithField("session_id", session.ID).Infof("Session %s", status)
	m.recorder.SessionEnded(session.Kind, session.Status)
	m.publish(ctx, ticket, session, event)
	return nil
}

// ensureIdle вызывается под мьютексом
func (m *Manager) ensureIdle() error {
	if m.current.IsActive() {
		return fmt.Errorf("%w: session %s", ErrConflict, m.current.ID)
	}
	return nil
}

// begin вызывается под мьютексом: сессия становится текущей только после записи в хранилище
func (m *Manager) begin(ctx context.Context, session *models.AlertSession) error {
	if err := m.store.Create(ctx, session); err != nil {
		return fmt.Errorf("safety: could not create session: %w", err)
	}
	m.current = session
	return nil
}

// transition вызывается под мьютексом. Ошибка записи не откатывает переход.
// Если хранилище уже содержит терминальный статус (сессию завершили в другом процессе),
// он принимается как есть и transition возвращает false: уведомлять не о чем.
func (m *Manager) transition(ctx context.Context, s *models.AlertSession, status models.SessionStatus, at time.Time) bool {
	log := m.entry("transition").WithFields(logrus.Fields{
		"session_id": s.ID,
		"status":     status,
	})

	ended := at
	next := s.Clone()
	next.Status = status
	next.EndedAt = &ended

	err := m.store.UpdateStatus(ctx, next)
	switch {
	case err == nil:
	case errors.Is(err, ErrConflict):
		log.WithError(err).WithField("stored_status", next.Status).Warn("Adopting status already stored for session")
		s.Status = next.Status
		s.EndedAt = next.EndedAt
		return false
	default:
		log.WithError(err).Error("Failed to persist status transition")
		m.recorder.CollaboratorError("store")
	}

	s.Status = status
	s.EndedAt = &ended
	return true
}

func (m *Manager) validateDuration(durationSeconds int) error {
	if durationSeconds <= 0 || durationSeconds > MaxCheckInSeconds {
		return fmt.Errorf("%w: duration must be between 1 and %d seconds", ErrValidation, MaxCheckInSeconds)
	}
	if len(m.allowed) == 0 {
		return nil
	}
	if _, ok := m.allowed[durationSeconds]; !ok {
		return fmt.Errorf("%w: duration of %d seconds is not an allowed option", ErrValidation, durationSeconds)
	}
	return nil
}

func (m *Manager) notify(ctx context.Context, session *models.AlertSession, event models.SessionEvent) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, session, event); err != nil {
		m.entry("notify").WithError(fmt.Errorf("%w: notifier: %v", ErrProvider, err)).WithFields(logrus.Fields{
			"session_id": session.ID,
			"event":      event,
		}).Error("Failed to notify trusted contacts")
		m.recorder.CollaboratorError("notifier")
	}
}

// ticket вызывается под мьютексом и занимает место события в очереди публикации
func (m *Manager) ticket() uint64 {
	t := m.issued
	m.issued++
	return t
}

// publish дожидается своей очереди и отправляет событие. Событие started для сессии,
// которая к этому моменту уже завершена, не отправляется.
func (m *Manager) publish(ctx context.Context, ticket uint64, session *models.AlertSession, event models.SessionEvent) {
	m.eventsMu.Lock()
	for m.served != ticket {
		m.turn.Wait()
	}
	m.eventsMu.Unlock()

	defer func() {
		m.eventsMu.Lock()
		m.served++
		m.turn.Broadcast()
		m.eventsMu.Unlock()
	}()

	if event == models.SessionEventStarted && !m.isActive(session.ID) {
		m.entry("publish").WithField("session_id", session.ID).Info("Session finished before start was announced, skipping")
		return
	}
	m.notify(ctx, session, event)
}

func (m *Manager) isActive(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.IsActive() && m.current.ID == id
}

func (m *Manager) entry(method string) *logrus.Entry {
	return m.logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  method,
		"user_id": m.userID,
	})
}

func snapshotAt(s *models.AlertSession, now time.Time) *Snapshot {
	end := now
	if !s.IsActive() && s.EndedAt != nil {
		end = *s.EndedAt
	}

	snap := &Snapshot{
		Session:        s.Clone(),
		ElapsedSeconds: clampSeconds(end.Sub(s.StartedAt)),
	}
	if s.Kind == models.SessionKindCheckIn && s.IsActive() && s.ExpiresAt != nil {
		snap.RemainingSeconds = clampSeconds(s.ExpiresAt.Sub(now))
		snap.LowTime = s.ExpiresAt.Sub(now) < LowTimeThreshold
	}
	return snap
}

func clampSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
