// Package jobs управляет фоновыми задачами (cron).
// Задачи именованные: их можно снимать и перерегистрировать на лету —
// это нужно экрану настроек напоминаний.
package jobs

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler — обёртка над cron с именованными задачами.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler создаёт планировщик в заданном часовом поясе.
// Паника в задаче гасится и логируется, планировщик продолжает работать.
func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log.StandardLogger()))),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// Add регистрирует задачу под именем. Задача с таким именем уже есть —
// старая снимается.
func (s *Scheduler) Add(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return err
	}
	s.entries[name] = id
	log.WithFields(log.Fields{"job": name, "spec": spec}).Info("Задача зарегистрирована")
	return nil
}

// Remove снимает задачу по имени (отсутствующая — no-op).
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
		log.WithField("job", name).Info("Задача снята")
	}
}

// Start запускает планировщик.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается выполняющихся задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
