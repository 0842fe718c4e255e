package services

import (
	"time"

	"PageSchedulerAPI/database"
	"PageSchedulerAPI/utils"

	"github.com/robfig/cron/v3"
)

const (
	postRetention    = 7 * 24 * time.Hour
	sessionRetention = 24 * time.Hour
)

// SweepRecorder is notified how many records each sweep removed. Satisfied
// by metrics.Collector.
type SweepRecorder interface {
	RecordSwept(kind string, count int)
}

// Sweeper periodically purges scheduled posts older than the 7-day retention
// window (regardless of status) and sessions older than 24 hours. It runs
// independently of request handling; the store serializes access.
type Sweeper struct {
	cron     *cron.Cron
	store    database.Store
	recorder SweepRecorder
}

func NewSweeper(store database.Store, recorder SweepRecorder) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		store:    store,
		recorder: recorder,
	}
}

func (s *Sweeper) Start() {
	s.cron.AddFunc("@daily", s.Run)
	s.cron.Start()
	utils.Infof("retention sweeper started")
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Run executes one sweep. It is exported so an external trigger (or a test)
// can invoke it directly.
func (s *Sweeper) Run() {
	now := time.Now()

	posts, err := s.store.DeletePostsCreatedBefore(now.Add(-postRetention))
	if err != nil {
		utils.Errorf("post retention sweep failed: %v", err)
	} else if s.recorder != nil {
		s.recorder.RecordSwept("posts", posts)
	}

	sessions, err := s.store.DeleteSessionsCreatedBefore(now.Add(-sessionRetention))
	if err != nil {
		utils.Errorf("session retention sweep failed: %v", err)
	} else if s.recorder != nil {
		s.recorder.RecordSwept("sessions", sessions)
	}

	utils.Infof("retention sweep complete posts_deleted=%d sessions_deleted=%d", posts, sessions)
}
