package services

import (
	"context"
	"sync"
	"time"

	"github.com/joannescode/etllm-pagbank/internal/logger"
	"go.uber.org/zap"
)

// Scheduler runs the extraction pipeline at a fixed interval while the API
// server is up. Cycles never overlap: a slow run makes the next tick skip.
type Scheduler struct {
	service  *StatementService
	interval time.Duration
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
	cycling  sync.Mutex
}

// NewScheduler creates a new Scheduler instance
func NewScheduler(service *StatementService, interval time.Duration) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
	}
}

// Start begins the periodic extraction process. Safe to call again after
// Stop; each start gets a fresh stop channel.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	logger.Logger.Info("scheduler started", zap.Duration("interval", s.interval))

	go func() {
		// Let the server settle before the first pass
		select {
		case <-time.After(10 * time.Second):
			s.runOnce()
		case <-stop:
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-stop:
				logger.Logger.Info("scheduler stopped")
				return
			}
		}
	}()
}

// Stop stops the periodic extraction process
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopChan)
	s.running = false
}

// runOnce executes one pipeline pass unless a previous one is still going
func (s *Scheduler) runOnce() {
	if !s.cycling.TryLock() {
		logger.Logger.Warn("previous extraction run still in progress, skipping")
		return
	}
	defer s.cycling.Unlock()

	run, _, err := s.service.Run(context.Background())
	if err != nil {
		logger.Logger.Error("scheduled extraction run failed", zap.Error(err))
		return
	}

	logger.Logger.Info("scheduled extraction run completed",
		zap.String("run_id", run.ID),
		zap.Int("emails_new", run.EmailsNew),
		zap.Int("rows", run.Rows),
	)
}
