package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is the nightly job that drops metadata entries whose file is gone
// from the upload directory. Files can disappear out-of-band (a failed delete
// cleaned the disk but not the metadata, or an operator removed them), and
// without the sweep those entries accumulate forever.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Scheduler struct {
	sweeper Sweeper
	cron    *cron.Cron
}

func NewScheduler(sweeper Sweeper) *Scheduler {
	return &Scheduler{sweeper: sweeper}
}

// Start schedules the sweep nightly at 12:00 AM.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runSweep()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (metadata sweep nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runSweep() {
	log.Println("Nightly metadata sweep started...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		log.Printf("Metadata sweep failed: %v", err)
		return
	}

	log.Printf("Metadata sweep completed, %d orphaned entries removed at: %s",
		removed, time.Now().Format(time.RFC1123))
}
