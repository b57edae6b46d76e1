package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/services/tools"
)

// Service runs background maintenance on a cron schedule. Its one job is
// keeping the gateway tool catalog warm so user requests rarely pay the
// tools/list round-trip.
type Service struct {
	catalog      *tools.Catalog
	eventService interfaces.EventService
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex
	running      bool
}

// NewService creates a new scheduler service
func NewService(catalog *tools.Catalog, eventService interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		catalog:      catalog,
		eventService: eventService,
		cron:         cron.New(),
		logger:       logger,
	}
}

// Start begins the scheduler with the given cron expression
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}

	if _, err := s.cron.AddFunc(cronExpr, s.refreshCatalog); err != nil {
		return fmt.Errorf("failed to add catalog refresh job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler and waits for any in-flight run to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		s.logger.Warn().Msg("Scheduled job did not finish within shutdown timeout")
	}

	s.running = false
	s.logger.Info().Msg("Scheduler stopped")

	return nil
}

// refreshCatalog forces a tool catalog re-fetch and announces the result
func (s *Service) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	toolCount, err := s.catalog.Refresh(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled catalog refresh failed")
		return
	}

	s.logger.Debug().
		Int("tool_count", toolCount).
		Dur("duration", time.Since(start)).
		Msg("Tool catalog refreshed")

	if s.eventService != nil {
		_ = s.eventService.Publish(ctx, interfaces.Event{
			Type: interfaces.EventCatalogRefreshed,
			Payload: map[string]interface{}{
				"tool_count": toolCount,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}
