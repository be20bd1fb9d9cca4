package CronJobs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DocumentSweeper deletes generated invoice documents that are older than
// the retention window. The persisted database records are never touched.
type DocumentSweeper struct {
	cronScheduler *cron.Cron
	documentDir   string
	retentionDays int
	schedule      string
	jobID         cron.EntryID
}

// NewDocumentSweeper creates a sweeper for the given output directory
func NewDocumentSweeper(documentDir string, retentionDays int, schedule string) *DocumentSweeper {
	return &DocumentSweeper{
		cronScheduler: cron.New(cron.WithSeconds()),
		documentDir:   documentDir,
		retentionDays: retentionDays,
		schedule:      schedule,
	}
}

// Start schedules the sweep job
func (s *DocumentSweeper) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		log.Println("Running scheduled document retention sweep")
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	log.Printf("Document sweeper started - retention %d days, schedule %q", s.retentionDays, s.schedule)
	return nil
}

// Stop terminates the sweeper
func (s *DocumentSweeper) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Document sweeper stopped")
	}
}

func (s *DocumentSweeper) runSweep() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	entries, err := os.ReadDir(s.documentDir)
	if err != nil {
		log.Printf("Sweep skipped, cannot read %s: %v", s.documentDir, err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "Invoice_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.documentDir, entry.Name())); err != nil {
			log.Printf("Could not remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}

	log.Printf("Document sweep finished, removed %d files", removed)
}
