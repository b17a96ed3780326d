package maintenance

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/storage"
)

// Scheduler runs periodic SQLite housekeeping over every open database:
// a WAL checkpoint keeps the log file bounded and an incremental vacuum
// reclaims space freed by deletes. Failures are logged, never fatal.
type Scheduler struct {
	cron     *cron.Cron
	registry *storage.Registry
	logger   *logrus.Logger
}

// NewScheduler creates the scheduler with a nightly housekeeping job.
func NewScheduler(registry *storage.Registry, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		registry: registry,
		logger:   logger,
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.runHousekeeping); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runHousekeeping() {
	for _, name := range s.registry.Cached() {
		db, err := s.registry.Open(name)
		if err != nil {
			s.logger.WithError(err).Warnf("housekeeping: skipping database %s", name)
			continue
		}
		if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			s.logger.WithError(err).Warnf("housekeeping: checkpoint failed for %s", name)
		}
		if _, err := db.Exec("PRAGMA incremental_vacuum"); err != nil {
			s.logger.WithError(err).Warnf("housekeeping: vacuum failed for %s", name)
		}
	}
	s.logger.Info("database housekeeping finished")
}
