package services

import (
	"testing"
	"time"

	"PageSchedulerAPI/database"
	"PageSchedulerAPI/models"

	"github.com/google/uuid"
)

type recordedSweeps struct {
	counts map[string]int
}

func (r *recordedSweeps) RecordSwept(kind string, count int) {
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[kind] += count
}

func seedPost(t *testing.T, store database.Store, age time.Duration, status models.PostStatus) string {
	t.Helper()
	post := &models.ScheduledPost{
		ID:        uuid.New().String(),
		UserID:    "u1",
		Status:    status,
		Results:   []models.PublishResult{},
		CreatedAt: time.Now().Add(-age),
	}
	if err := store.CreatePost(post); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post.ID
}

func TestSweeperPurgesExpiredPostsAndSessions(t *testing.T) {
	store := database.NewMemoryStore()
	recorder := &recordedSweeps{}
	sweeper := NewSweeper(store, recorder)

	oldID := seedPost(t, store, 8*24*time.Hour, models.StatusPublished)
	oldCancelledID := seedPost(t, store, 9*24*time.Hour, models.StatusCancelled)
	freshID := seedPost(t, store, 6*24*time.Hour, models.StatusScheduled)

	staleSession := &models.Session{ID: "s-old", UserID: "u1", CreatedAt: time.Now().Add(-25 * time.Hour)}
	freshSession := &models.Session{ID: "s-new", UserID: "u1", CreatedAt: time.Now().Add(-time.Hour)}
	store.CreateSession(staleSession)
	store.CreateSession(freshSession)

	sweeper.Run()

	// Retention applies regardless of status.
	for _, id := range []string{oldID, oldCancelledID} {
		if _, err := store.GetPost(id); err == nil {
			t.Errorf("post %s survived sweep", id)
		}
	}
	if _, err := store.GetPost(freshID); err != nil {
		t.Errorf("post inside retention window was swept: %v", err)
	}

	if _, err := store.GetSession("s-old"); err == nil {
		t.Errorf("stale session survived sweep")
	}
	if _, err := store.GetSession("s-new"); err != nil {
		t.Errorf("fresh session was swept: %v", err)
	}

	if recorder.counts["posts"] != 2 {
		t.Errorf("recorded %d swept posts, want 2", recorder.counts["posts"])
	}
	if recorder.counts["sessions"] != 1 {
		t.Errorf("recorded %d swept sessions, want 1", recorder.counts["sessions"])
	}
}

func TestSweeperNoopOnEmptyStore(t *testing.T) {
	sweeper := NewSweeper(database.NewMemoryStore(), nil)
	sweeper.Run()
}
