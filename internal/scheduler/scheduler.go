package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Job interface{ Run(ctx context.Context) }

type FuncJob func(ctx context.Context)

func (f FuncJob) Run(ctx context.Context) { f(ctx) }

// Scheduler запускает периодические задачи сервиса: интервальные и по cron-выражению
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cron   *cron.Cron
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.PrintfLogger(logger))),
	)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		cron:   c,
		logger: logger,
	}
}

// Every запускает job каждые d до вызова Stop
func (s *Scheduler) Every(name string, d time.Duration, job Job) {
	if d <= 0 {
		s.logger.WithField("job", name).Warn("Non-positive interval, job is not scheduled")
		return
	}
	s.wg.Add(1)
	go s.loopEvery(name, d, job)
}

// Cron регистрирует job по cron-выражению (стандартный синтаксис и дескрипторы вида @daily)
func (s *Scheduler) Cron(name, expr string, job Job) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.logger.WithField("job", name).Debug("Running cron job")
		job.Run(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron expression %q for %s: %w", expr, name, err)
	}
	return nil
}

// Entries возвращает зарегистрированные cron-задачи
func (s *Scheduler) Entries() []cron.Entry { return s.cron.Entries() }

func (s *Scheduler) Start() { s.cron.Start() }

// Stop останавливает все задачи и ждёт завершения уже запущенных
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

func (s *Scheduler) loopEvery(name string, d time.Duration, job Job) {
	defer s.wg.Done()
	s.logger.WithFields(logrus.Fields{"job": name, "interval": d}).Info("Scheduled periodic job")

	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			job.Run(s.ctx)
		}
	}
}
