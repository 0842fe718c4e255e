package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"PageSchedulerAPI/database"
	"PageSchedulerAPI/models"
)

type stubRegistry struct {
	user *models.User
}

func (r *stubRegistry) GetByID(userID string) (*models.User, error) {
	if r.user == nil || r.user.ID != userID {
		return nil, models.NewNotFoundError("user", userID)
	}
	cp := *r.user
	return &cp, nil
}

func (r *stubRegistry) GetPage(userID, pageID string) (*models.Page, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}
	page := user.GetPage(pageID)
	if page == nil {
		return nil, models.NewNotFoundError("page", pageID)
	}
	cp := *page
	return &cp, nil
}

type stubPublisher struct {
	mu       sync.Mutex
	createFn func(pageID string) (string, error)
	created  []string
	deleted  []string
	deleteFn func(postID string) error
}

func (p *stubPublisher) CreateScheduledPost(ctx context.Context, pageID, token, message string, publishAt time.Time) (string, error) {
	p.mu.Lock()
	p.created = append(p.created, pageID)
	p.mu.Unlock()
	if p.createFn != nil {
		return p.createFn(pageID)
	}
	return "ext_" + pageID, nil
}

func (p *stubPublisher) DeletePost(ctx context.Context, postID, token string) error {
	p.mu.Lock()
	p.deleted = append(p.deleted, postID)
	p.mu.Unlock()
	if p.deleteFn != nil {
		return p.deleteFn(postID)
	}
	return nil
}

type stubEnhancer struct {
	fn    func(text string) string
	calls int
}

func (e *stubEnhancer) EnhanceContent(ctx context.Context, text string) string {
	e.calls++
	if e.fn != nil {
		return e.fn(text)
	}
	return "enhanced: " + text
}

func testUser() *models.User {
	return &models.User{
		ID:         "u1",
		FacebookID: "fb1",
		Name:       "Test User",
		Pages: []models.Page{
			{ID: "p1", Name: "Page One", AccessToken: "tok1"},
			{ID: "p2", Name: "Page Two", AccessToken: "tok2"},
			{ID: "p3", Name: "Page Three", AccessToken: "tok3"},
		},
	}
}

func newTestPostService(publisher *stubPublisher, enhancer *stubEnhancer) (*PostService, database.Store) {
	store := database.NewMemoryStore()
	registry := &stubRegistry{user: testUser()}
	return NewPostService(store, registry, publisher, enhancer, nil), store
}

func TestCreateSchedulesAllSelectedPages(t *testing.T) {
	publisher := &stubPublisher{}
	enhancer := &stubEnhancer{}
	svc, _ := newTestPostService(publisher, enhancer)

	future := time.Now().Add(2 * time.Hour)
	post, err := svc.Create(context.Background(), "u1", "hello world", []string{"p1", "p2"}, future)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if post.Status != models.StatusScheduled {
		t.Errorf("status = %q, want %q", post.Status, models.StatusScheduled)
	}
	if post.EnhancedContent != "enhanced: hello world" {
		t.Errorf("enhanced content = %q", post.EnhancedContent)
	}
	if len(post.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(post.Results))
	}
	if post.Results[0].PageID != "p1" || post.Results[1].PageID != "p2" {
		t.Errorf("results out of submission order: %q then %q", post.Results[0].PageID, post.Results[1].PageID)
	}
	for _, r := range post.Results {
		if r.Status != models.ResultScheduled {
			t.Errorf("result for %s status = %q, want scheduled", r.PageID, r.Status)
		}
		if r.PostID == "" {
			t.Errorf("result for %s missing external post id", r.PageID)
		}
	}
}

func TestCreateRecordsPartialFailure(t *testing.T) {
	publisher := &stubPublisher{
		createFn: func(pageID string) (string, error) {
			if pageID == "p2" {
				return "", models.NewExternalAPIError("Facebook", "page token expired", 190)
			}
			return "ext_" + pageID, nil
		},
	}
	svc, _ := newTestPostService(publisher, &stubEnhancer{})

	future := time.Now().Add(time.Hour)
	post, err := svc.Create(context.Background(), "u1", "text", []string{"p1", "p2", "p3"}, future)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// A per-page failure never fails the post itself.
	if post.Status != models.StatusScheduled {
		t.Errorf("status = %q, want scheduled", post.Status)
	}
	if len(post.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(post.Results))
	}
	if post.Results[1].Status != models.ResultFailed {
		t.Errorf("p2 result status = %q, want failed", post.Results[1].Status)
	}
	if !strings.Contains(post.Results[1].Error, "page token expired") {
		t.Errorf("p2 error = %q, want provider message preserved", post.Results[1].Error)
	}
	if got := len(post.SuccessfulResults()); got != 2 {
		t.Errorf("successful results = %d, want 2", got)
	}
	if got := len(post.FailedResults()); got != 1 {
		t.Errorf("failed results = %d, want 1", got)
	}
}

func TestCreateRejectsPastScheduledTime(t *testing.T) {
	publisher := &stubPublisher{}
	enhancer := &stubEnhancer{}
	svc, _ := newTestPostService(publisher, enhancer)

	_, err := svc.Create(context.Background(), "u1", "text", []string{"p1"}, time.Now().Add(-time.Minute))

	var validation *models.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	// Validation happens before any external call.
	if enhancer.calls != 0 {
		t.Errorf("enhancer called %d times for invalid request", enhancer.calls)
	}
	if len(publisher.created) != 0 {
		t.Errorf("publisher called for invalid request")
	}
}

func TestCreateRejectsEmptyText(t *testing.T) {
	svc, _ := newTestPostService(&stubPublisher{}, &stubEnhancer{})

	_, err := svc.Create(context.Background(), "u1", "", []string{"p1"}, time.Now().Add(time.Hour))

	var validation *models.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestCreateRejectsWhenNoSelectedPageIsAuthorized(t *testing.T) {
	svc, _ := newTestPostService(&stubPublisher{}, &stubEnhancer{})

	_, err := svc.Create(context.Background(), "u1", "text", []string{"stale1", "stale2"}, time.Now().Add(time.Hour))

	var validation *models.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestCreateDropsUnauthorizedAndDuplicatePages(t *testing.T) {
	publisher := &stubPublisher{}
	svc, _ := newTestPostService(publisher, &stubEnhancer{})

	post, err := svc.Create(context.Background(), "u1", "text",
		[]string{"p2", "stale", "p2", "p1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(post.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(post.Results))
	}
	if post.Results[0].PageID != "p2" || post.Results[1].PageID != "p1" {
		t.Errorf("results = %q, %q; want p2 then p1", post.Results[0].PageID, post.Results[1].PageID)
	}
}

func TestCreateFallsBackWhenEnhancementDegrades(t *testing.T) {
	enhancer := &stubEnhancer{fn: func(text string) string { return text }}
	svc, _ := newTestPostService(&stubPublisher{}, enhancer)

	post, err := svc.Create(context.Background(), "u1", "plain text", []string{"p1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.EnhancedContent != post.OriginalText {
		t.Errorf("enhanced = %q, want fallback to original %q", post.EnhancedContent, post.OriginalText)
	}
}

func TestCancelDeletesExternalCopiesAndHidesPost(t *testing.T) {
	publisher := &stubPublisher{}
	svc, _ := newTestPostService(publisher, &stubEnhancer{})

	post, err := svc.Create(context.Background(), "u1", "text", []string{"p1", "p2"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Cancel(context.Background(), post.ID, "u1"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if len(publisher.deleted) != 2 {
		t.Errorf("deleted %d external posts, want 2", len(publisher.deleted))
	}

	// The record survives with cancelled status but leaves the listing.
	got, err := svc.GetByID(post.ID)
	if err != nil {
		t.Fatalf("GetByID after cancel: %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("status = %q, want cancelled", got.Status)
	}

	listed, err := svc.List("u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, p := range listed {
		if p.ID == post.ID {
			t.Errorf("cancelled post still listed")
		}
	}
}

func TestCancelRejectsForeignPost(t *testing.T) {
	publisher := &stubPublisher{}
	svc, _ := newTestPostService(publisher, &stubEnhancer{})

	post, err := svc.Create(context.Background(), "u1", "text", []string{"p1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err = svc.Cancel(context.Background(), post.ID, "intruder")
	var forbidden *models.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("got %v, want ForbiddenError", err)
	}
	if len(publisher.deleted) != 0 {
		t.Errorf("external delete attempted for forbidden cancel")
	}
}

func TestCancelRejectsPostPastItsScheduledTime(t *testing.T) {
	svc, store := newTestPostService(&stubPublisher{}, &stubEnhancer{})

	post, err := svc.Create(context.Background(), "u1", "text", []string{"p1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Move the publish time into the past; the window has closed.
	past := time.Now().Add(-time.Minute)
	stored, _ := store.GetPost(post.ID)
	stored.ScheduledTime = past
	if err := store.DeletePost(post.ID); err != nil {
		t.Fatalf("reset post: %v", err)
	}
	if err := store.CreatePost(stored); err != nil {
		t.Fatalf("reset post: %v", err)
	}

	err = svc.Cancel(context.Background(), post.ID, "u1")
	var invalidState *models.InvalidStateError
	if !errors.As(err, &invalidState) {
		t.Fatalf("got %v, want InvalidStateError", err)
	}
}

func TestCancelSwallowsExternalDeleteFailure(t *testing.T) {
	publisher := &stubPublisher{
		deleteFn: func(postID string) error {
			return models.NewExternalAPIError("Facebook", "unreachable", 0)
		},
	}
	svc, _ := newTestPostService(publisher, &stubEnhancer{})

	post, err := svc.Create(context.Background(), "u1", "text", []string{"p1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Cancel(context.Background(), post.ID, "u1"); err != nil {
		t.Fatalf("Cancel should swallow external delete failures, got %v", err)
	}

	got, _ := svc.GetByID(post.ID)
	if got.Status != models.StatusCancelled {
		t.Errorf("status = %q, want cancelled despite delete failure", got.Status)
	}
}

func TestCancelUnknownPost(t *testing.T) {
	svc, _ := newTestPostService(&stubPublisher{}, &stubEnhancer{})

	err := svc.Cancel(context.Background(), "nope", "u1")
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}
