package scheduler

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return New(logger)
}

func TestEvery_RunsUntilStopped(t *testing.T) {
	s := newTestScheduler()
	var runs int32

	s.Every("counter", 5*time.Millisecond, FuncJob(func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	}))
	s.Start()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))
}

func TestEvery_JobSeesCancelledContextAfterStop(t *testing.T) {
	s := newTestScheduler()
	ctxCh := make(chan context.Context, 1)

	s.Every("capture", time.Millisecond, FuncJob(func(ctx context.Context) {
		select {
		case ctxCh <- ctx:
		default:
		}
	}))

	var jobCtx context.Context
	select {
	case jobCtx = <-ctxCh:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	s.Stop()

	assert.Error(t, jobCtx.Err())
}

func TestEvery_IgnoresNonPositiveInterval(t *testing.T) {
	s := newTestScheduler()
	s.Every("never", 0, FuncJob(func(ctx context.Context) {
		t.Error("job must not run")
	}))
	s.Stop()
}

func TestCron_RegistersAndValidates(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	require.NoError(t, s.Cron("purge", "@daily", FuncJob(func(ctx context.Context) {})))
	require.NoError(t, s.Cron("purge-hourly", "0 * * * *", FuncJob(func(ctx context.Context) {})))
	assert.Len(t, s.Entries(), 2)

	err := s.Cron("broken", "not a cron", FuncJob(func(ctx context.Context) {}))
	assert.Error(t, err)
	assert.Len(t, s.Entries(), 2)
}
