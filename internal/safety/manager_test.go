package safety

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	manager  *Manager
	store    *mocks.MockSessionStore
	contacts *mocks.MockContactCounter
	notifier *mocks.MockNotifier
	locator  *mocks.MockLocationProvider
	clock    *fakeClock
	userID   uuid.UUID
}

// newFixture — менеджер с моками и часами, остановленными на t0
func newFixture(t *testing.T, allowed ...int) *fixture {
	ctrl := gomock.NewController(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard) // Отключаем вывод логов в тестах

	f := &fixture{
		store:    mocks.NewMockSessionStore(ctrl),
		contacts: mocks.NewMockContactCounter(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		locator:  mocks.NewMockLocationProvider(ctrl),
		clock:    &fakeClock{now: t0},
		userID:   uuid.New(),
	}
	f.manager = NewManager(f.userID, Dependencies{
		Store:    f.store,
		Contacts: f.contacts,
		Notifier: f.notifier,
		Locator:  f.locator,
		Clock:    f.clock,
		Logger:   logger,
	}, Settings{
		AllowedCheckInSeconds: allowed,
		LocationTimeout:       time.Second,
	})
	return f
}

func (f *fixture) startCheckIn(t *testing.T, duration int) uuid.UUID {
	t.Helper()
	f.contacts.EXPECT().CountContacts(gomock.Any(), f.userID).Return(2, nil)
	f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), models.SessionEventStarted).Return(nil)

	id, err := f.manager.StartCheckIn(context.Background(), duration)
	require.NoError(t, err)
	return id
}

func TestStartSOS_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fix := &models.Location{Latitude: 51.5072, Longitude: -0.1276, Accuracy: 12, CapturedAt: t0}

	f.store.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.AlertSession) error {
			assert.Equal(t, models.SessionKindSOS, s.Kind)
			assert.Equal(t, models.SessionStatusActive, s.Status)
			assert.Equal(t, t0, s.StartedAt)
			assert.Nil(t, s.ExpiresAt)
			assert.Nil(t, s.DurationSeconds)
			return nil
		})
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(fix, nil)
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), *fix).Return(nil)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).
		DoAndReturn(func(_ context.Context, s *models.AlertSession, _ models.SessionEvent) error {
			require.NotNil(t, s.LastLocation)
			assert.Equal(t, fix.Latitude, s.LastLocation.Latitude)
			return nil
		})

	id, err := f.manager.StartSOS(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	current := f.manager.Current()
	require.NotNil(t, current)
	assert.Equal(t, id, current.ID)
	assert.True(t, f.manager.Active())
}

func TestStartSOS_ConflictWhenActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(nil, errors.New("no fix"))
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).Return(nil)

	_, err := f.manager.StartSOS(ctx)
	require.NoError(t, err)

	_, err = f.manager.StartSOS(ctx)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.manager.StartCheckIn(ctx, 900)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStartSOS_ThenCancel_IsCancelledNeverExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(nil, context.DeadlineExceeded)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).Return(nil)
	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventCancelled).Return(nil).Times(1)

	_, err := f.manager.StartSOS(ctx)
	require.NoError(t, err)
	require.NoError(t, f.manager.Cancel(ctx))

	snap, err := f.manager.Tick(ctx, t0.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, snap.Session.Status)
}

func TestCheckIn_ExpiresExactlyOnce(t *testing.T) {
	const d = 900
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, d)

	snap, err := f.manager.Tick(ctx, t0.Add((d-1)*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, snap.Session.Status)
	assert.Equal(t, 1, snap.RemainingSeconds)

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.AlertSession) error {
			assert.Equal(t, models.SessionStatusExpired, s.Status)
			return nil
		}).Times(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventExpired).Return(nil).Times(1)

	snap, err = f.manager.Tick(ctx, t0.Add(d*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusExpired, snap.Session.Status)
	assert.Equal(t, 0, snap.RemainingSeconds)

	snap, err = f.manager.Tick(ctx, t0.Add((d+100)*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusExpired, snap.Session.Status)
	assert.Equal(t, 0, snap.RemainingSeconds)
}

func TestCheckIn_ExpiresAtFixedAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 1800)

	f.clock.Set(t0.Add(10 * time.Minute))
	_, err := f.manager.Tick(ctx, f.clock.Now())
	require.NoError(t, err)

	current := f.manager.Current()
	require.NotNil(t, current.ExpiresAt)
	assert.Equal(t, t0.Add(30*time.Minute), *current.ExpiresAt)
	assert.Equal(t, 1800, *current.DurationSeconds)
}

func TestCheckIn_WithoutContacts_PreconditionError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.contacts.EXPECT().CountContacts(ctx, f.userID).Return(0, nil)
	f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.manager.StartCheckIn(ctx, 30*60)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Nil(t, f.manager.Current())

	_, err = f.manager.Tick(ctx, t0)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestCheckIn_ContactCountFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.contacts.EXPECT().CountContacts(ctx, f.userID).Return(0, errors.New("db down"))

	_, err := f.manager.StartCheckIn(ctx, 900)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPrecondition)
	assert.Nil(t, f.manager.Current())
}

func TestCheckIn_InvalidDuration(t *testing.T) {
	f := newFixture(t, 900, 1800, 3600)
	ctx := context.Background()

	for _, d := range []int{0, -60, MaxCheckInSeconds + 1, 1200} {
		_, err := f.manager.StartCheckIn(ctx, d)
		assert.ErrorIs(t, err, ErrValidation, "duration %d", d)
	}
	assert.Nil(t, f.manager.Current())
}

func TestCheckIn_AnyBoundedDurationWhenNoAllowedSet(t *testing.T) {
	f := newFixture(t)
	id := f.startCheckIn(t, 1234)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestResolveAndCancel_NoActiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.manager.Resolve(ctx), ErrNoActiveSession)
	assert.ErrorIs(t, f.manager.Cancel(ctx), ErrNoActiveSession)
	assert.Nil(t, f.manager.Current())
}

func TestResolve_TerminalSessionIsNotMutated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventResolved).Return(nil).Times(1)
	require.NoError(t, f.manager.Resolve(ctx))

	before := f.manager.Current()
	assert.ErrorIs(t, f.manager.Resolve(ctx), ErrNoActiveSession)
	assert.ErrorIs(t, f.manager.Cancel(ctx), ErrNoActiveSession)
	assert.Equal(t, before, f.manager.Current())
}

func TestCheckIn_ResolvedBeforeExpiry_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	current := f.manager.Current()
	assert.Equal(t, t0.Add(900*time.Second), *current.ExpiresAt)

	snap, err := f.manager.Tick(ctx, t0.Add(890*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 10, snap.RemainingSeconds)
	assert.Equal(t, models.SessionStatusActive, snap.Session.Status)

	f.clock.Set(t0.Add(895 * time.Second))
	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventResolved).Return(nil).Times(1)
	require.NoError(t, f.manager.Resolve(ctx))

	snap, err = f.manager.Tick(ctx, t0.Add(1000*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusResolved, snap.Session.Status)
	assert.Equal(t, 895, snap.ElapsedSeconds)
}

func TestTick_LowTimeFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	snap, err := f.manager.Tick(ctx, t0.Add(11*time.Minute))
	require.NoError(t, err)
	assert.True(t, snap.LowTime)

	snap, err = f.manager.Tick(ctx, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, snap.LowTime)
}

func TestTick_SOSReportsElapsed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(nil, errors.New("no fix"))
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).Return(nil)

	_, err := f.manager.StartSOS(ctx)
	require.NoError(t, err)

	snap, err := f.manager.Tick(ctx, t0.Add(75*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 75, snap.ElapsedSeconds)
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.Equal(t, models.SessionStatusActive, snap.Session.Status)
}

func TestRefreshLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.manager.RefreshLocation(ctx, models.Location{Latitude: 1, Longitude: 1, CapturedAt: t0}))

	f.startCheckIn(t, 900)
	f.clock.Set(t0.Add(time.Minute))

	fresh := models.Location{Latitude: 51.5, Longitude: -0.12, Accuracy: 5, CapturedAt: t0.Add(30 * time.Second)}
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), fresh).Return(nil)
	assert.True(t, f.manager.RefreshLocation(ctx, fresh))

	stale := models.Location{Latitude: 50, Longitude: 0, CapturedAt: t0.Add(10 * time.Second)}
	assert.False(t, f.manager.RefreshLocation(ctx, stale))
	assert.Equal(t, fresh.Latitude, f.manager.Current().LastLocation.Latitude)

	// позиция из будущего и позиция без времени съёмки отбрасываются
	future := models.Location{Latitude: 52, Longitude: 0, CapturedAt: t0.Add(time.Hour)}
	assert.False(t, f.manager.RefreshLocation(ctx, future))
	assert.False(t, f.manager.RefreshLocation(ctx, models.Location{Latitude: 53, Longitude: 0}))

	next := models.Location{Latitude: 51.6, Longitude: -0.1, CapturedAt: t0.Add(time.Minute)}
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), next).Return(errors.New("db down"))
	assert.True(t, f.manager.RefreshLocation(ctx, next))

	current := f.manager.Current()
	assert.Equal(t, next.Latitude, current.LastLocation.Latitude)
	assert.Equal(t, t0.Add(time.Minute), current.LastLocation.CapturedAt)
	assert.Equal(t, models.SessionStatusActive, current.Status)
}

func TestRequestLocation_SameFixIsSavedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)
	f.clock.Set(t0.Add(5 * time.Minute))

	fix := &models.Location{Latitude: 55.75, Longitude: 37.61, CapturedAt: t0.Add(time.Minute)}
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(fix, nil).Times(3)
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), *fix).Return(nil).Times(1)

	// Провайдер отдаёт одну и ту же позицию при каждом опросе
	for i := 0; i < 3; i++ {
		f.clock.Set(t0.Add(time.Duration(5+i) * time.Minute))
		f.manager.RequestLocation(ctx)
	}

	current := f.manager.Current()
	require.NotNil(t, current.LastLocation)
	assert.Equal(t, t0.Add(time.Minute), current.LastLocation.CapturedAt)
}

func TestRequestLocation_UndatedFixIsNeverStamped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	undated := &models.Location{Latitude: 48.85, Longitude: 2.35}
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(undated, nil).Times(2)
	f.store.EXPECT().SaveLocation(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	f.clock.Set(t0.Add(5 * time.Minute))
	f.manager.RequestLocation(ctx)
	f.clock.Set(t0.Add(10 * time.Minute))
	f.manager.RequestLocation(ctx)

	assert.Nil(t, f.manager.Current().LastLocation)
}

func TestRequestLocation_FutureFixDoesNotReplaceNewerFix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)
	f.clock.Set(t0.Add(5 * time.Minute))

	actual := models.Location{Latitude: 10, Longitude: 10, CapturedAt: t0.Add(5 * time.Minute)}
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), actual).Return(nil).Times(1)
	require.True(t, f.manager.RefreshLocation(ctx, actual))

	skewed := &models.Location{Latitude: 90, Longitude: 0, CapturedAt: t0.Add(time.Hour)}
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(skewed, nil).Times(2)
	f.manager.RequestLocation(ctx)
	f.clock.Set(t0.Add(6 * time.Minute))
	f.manager.RequestLocation(ctx)

	assert.Equal(t, 10.0, f.manager.Current().LastLocation.Latitude)
}

func TestRequestLocation_ProviderFailureKeepsPreviousFix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	first := &models.Location{Latitude: 48.85, Longitude: 2.35, CapturedAt: t0}
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(first, nil)
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), *first).Return(nil)
	f.manager.RequestLocation(ctx)

	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).
		DoAndReturn(func(reqCtx context.Context, _ uuid.UUID) (*models.Location, error) {
			<-reqCtx.Done()
			return nil, reqCtx.Err()
		})
	f.manager.RequestLocation(ctx)

	current := f.manager.Current()
	require.NotNil(t, current.LastLocation)
	assert.Equal(t, first.Latitude, current.LastLocation.Latitude)
	assert.Equal(t, models.SessionStatusActive, current.Status)
}

func TestCancel_NotificationFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(errors.New("db down"))
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventCancelled).Return(errors.New("redis down"))

	require.NoError(t, f.manager.Cancel(ctx))
	assert.Equal(t, models.SessionStatusCancelled, f.manager.Current().Status)
	assert.False(t, f.manager.Active())
}

func TestStart_StoreConflictIsReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.EXPECT().Create(ctx, gomock.Any()).Return(ErrConflict)

	_, err := f.manager.StartSOS(ctx)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, f.manager.Current())
}

func TestStartSOS_ConcurrentCallsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(nil, errors.New("no fix")).MinTimes(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).Return(nil).Times(1)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.StartSOS(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
}

func TestRestore_ExpiredWhileDownFiresOnNextTick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	duration := 900
	expiresAt := t0.Add(-time.Minute)
	f.manager.Restore(&models.AlertSession{
		ID:              uuid.New(),
		UserID:          f.userID,
		Kind:            models.SessionKindCheckIn,
		Status:          models.SessionStatusActive,
		StartedAt:       expiresAt.Add(-900 * time.Second),
		DurationSeconds: &duration,
		ExpiresAt:       &expiresAt,
	})

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventExpired).Return(nil).Times(1)

	snap, err := f.manager.Tick(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusExpired, snap.Session.Status)
	require.NotNil(t, snap.Session.EndedAt)
	assert.Equal(t, t0, *snap.Session.EndedAt)
}

// notifyLog записывает события в порядке отправки
type notifyLog struct {
	mu     sync.Mutex
	events []string
}

func (l *notifyLog) add(s *models.AlertSession, event models.SessionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, string(event)+"/"+string(s.Status))
}

func (l *notifyLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func TestStartSOS_CancelWhileAnnouncingStartKeepsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := &notifyLog{}
	entered := make(chan struct{})
	release := make(chan struct{})

	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(nil, errors.New("no fix"))
	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).
		DoAndReturn(func(_ context.Context, s *models.AlertSession, e models.SessionEvent) error {
			sent.add(s, e)
			close(entered)
			<-release
			return nil
		})
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventCancelled).
		DoAndReturn(func(_ context.Context, s *models.AlertSession, e models.SessionEvent) error {
			sent.add(s, e)
			return nil
		})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.manager.StartSOS(ctx)
		assert.NoError(t, err)
	}()

	<-entered
	go func() {
		defer wg.Done()
		assert.NoError(t, f.manager.Cancel(ctx))
	}()
	require.Eventually(t, func() bool { return !f.manager.Active() }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []string{"started/active", "cancelled/cancelled"}, sent.list())
}

func TestStartSOS_CancelledBeforeAnnouncementSkipsStarted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := &notifyLog{}
	fix := &models.Location{Latitude: 51.5, Longitude: -0.12, CapturedAt: t0}

	var cancelled sync.WaitGroup
	cancelled.Add(1)
	f.locator.EXPECT().CurrentLocation(gomock.Any(), f.userID).Return(fix, nil)
	f.store.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
	// Отмена приходит, пока сохраняется первая позиция и событие started ещё не отправлено
	f.store.EXPECT().SaveLocation(ctx, gomock.Any(), *fix).
		DoAndReturn(func(context.Context, *models.AlertSession, models.Location) error {
			go func() {
				defer cancelled.Done()
				assert.NoError(t, f.manager.Cancel(ctx))
			}()
			require.Eventually(t, func() bool { return !f.manager.Active() }, time.Second, time.Millisecond)
			return nil
		})
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventStarted).Times(0)
	f.notifier.EXPECT().Notify(ctx, gomock.Any(), models.SessionEventCancelled).
		DoAndReturn(func(_ context.Context, s *models.AlertSession, e models.SessionEvent) error {
			sent.add(s, e)
			return nil
		})

	_, err := f.manager.StartSOS(ctx)
	require.NoError(t, err)
	cancelled.Wait()

	assert.Equal(t, []string{"cancelled/cancelled"}, sent.list())
}

// finishedElsewhere имитирует хранилище, где сессию уже завершил другой процесс
func finishedElsewhere(status models.SessionStatus, at time.Time) func(context.Context, *models.AlertSession) error {
	return func(_ context.Context, s *models.AlertSession) error {
		s.Status = status
		s.EndedAt = &at
		return fmt.Errorf("%w: session %s already %s", ErrConflict, s.ID, status)
	}
}

func TestTick_AdoptsStatusFinishedElsewhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)
	cancelledAt := t0.Add(10 * time.Minute)

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).
		DoAndReturn(finishedElsewhere(models.SessionStatusCancelled, cancelledAt)).Times(1)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), models.SessionEventExpired).Times(0)

	snap, err := f.manager.Tick(ctx, t0.Add(900*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, snap.Session.Status)
	require.NotNil(t, snap.Session.EndedAt)
	assert.Equal(t, cancelledAt, *snap.Session.EndedAt)

	// Повторный тик не трогает хранилище
	snap, err = f.manager.Tick(ctx, t0.Add(1000*time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, snap.Session.Status)
}

func TestResolve_SessionFinishedElsewhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.startCheckIn(t, 900)

	f.store.EXPECT().UpdateStatus(ctx, gomock.Any()).
		DoAndReturn(finishedElsewhere(models.SessionStatusExpired, t0.Add(900*time.Second))).Times(1)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), models.SessionEventResolved).Times(0)

	assert.ErrorIs(t, f.manager.Resolve(ctx), ErrNoActiveSession)
	assert.Equal(t, models.SessionStatusExpired, f.manager.Current().Status)
	assert.False(t, f.manager.Active())
}
