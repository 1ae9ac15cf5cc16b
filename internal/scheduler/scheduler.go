package scheduler

import (
	"fmt"

	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/jmdelacruz/pharmacy-inventory/internal/service"
	"github.com/jmdelacruz/pharmacy-inventory/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the periodic inventory check
type Scheduler struct {
	cron      *cron.Cron
	inventory *service.InventoryService
	mailer    *email.Sender
	cfg       *config.Config
	log       *logrus.Logger
}

// New initializes a new scheduler
func New(inventory *service.InventoryService, mailer *email.Sender, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		inventory: inventory,
		mailer:    mailer,
		cfg:       cfg,
		log:       log,
	}
}

// Start registers the inventory check job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.AlertSchedule, s.runInventoryCheck); err != nil {
		return fmt.Errorf("failed to schedule inventory check: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Inventory check scheduled: %s", s.cfg.AlertSchedule)
	return nil
}

// Stop halts the cron loop
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runInventoryCheck computes the summary and emails an alert when expired
// or low-stock items exist
func (s *Scheduler) runInventoryCheck() {
	summary, err := s.inventory.GetSummary()
	if err != nil {
		s.log.Errorf("Inventory check failed: %v", err)
		return
	}

	stats := summary.Summary
	if stats.Expired == 0 && stats.LowStock == 0 {
		s.log.Debug("Inventory check: nothing to report")
		return
	}
	if s.cfg.AlertEmail == "" {
		s.log.Warnf("Inventory alert suppressed, ALERT_EMAIL not configured (expired=%d, low_stock=%d)",
			stats.Expired, stats.LowStock)
		return
	}

	if err := s.mailer.SendInventoryAlert(s.cfg.AlertEmail, stats.Expired, stats.LowStock, stats.InventoryValue); err != nil {
		s.log.Errorf("Failed to send inventory alert: %v", err)
	}
}
