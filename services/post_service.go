package services

import (
	"context"
	"sync"
	"time"

	"PageSchedulerAPI/database"
	"PageSchedulerAPI/models"
	"PageSchedulerAPI/utils"

	"github.com/google/uuid"
)

// PagePublisher is the slice of the publishing platform the lifecycle
// manager needs: page-scoped scheduled-post creation and deletion.
type PagePublisher interface {
	CreateScheduledPost(ctx context.Context, pageID, pageAccessToken, message string, publishAt time.Time) (string, error)
	DeletePost(ctx context.Context, postID, accessToken string) error
}

// ContentEnhancer rewrites raw text. Implementations never return an error;
// they fall back to the input on provider failure.
type ContentEnhancer interface {
	EnhanceContent(ctx context.Context, text string) string
}

// PageRegistry resolves users and their page credentials.
type PageRegistry interface {
	GetByID(userID string) (*models.User, error)
	GetPage(userID, pageID string) (*models.Page, error)
}

// DispatchRecorder is notified of publish and cancel outcomes. Satisfied by
// metrics.Collector.
type DispatchRecorder interface {
	RecordDispatch(outcome string)
	RecordCancellation()
}

// PostService owns the ScheduledPost lifecycle: enhancement, per-page
// dispatch, result aggregation and cancellation.
type PostService struct {
	store     database.Store
	registry  PageRegistry
	publisher PagePublisher
	enhancer  ContentEnhancer
	recorder  DispatchRecorder
}

func NewPostService(store database.Store, registry PageRegistry, publisher PagePublisher, enhancer ContentEnhancer, recorder DispatchRecorder) *PostService {
	return &PostService{
		store:     store,
		registry:  registry,
		publisher: publisher,
		enhancer:  enhancer,
		recorder:  recorder,
	}
}

// Create validates the request, enhances the content, persists the post, and
// fans out one publish call per authorized target page. Per-page failures are
// recorded as failed results; they never abort the remaining pages or the
// post itself.
func (s *PostService) Create(ctx context.Context, userID, originalText string, targetPageIDs []string, scheduledTime time.Time) (*models.ScheduledPost, error) {
	if originalText == "" {
		return nil, models.NewValidationError("original text is required")
	}
	if len(targetPageIDs) == 0 {
		return nil, models.NewValidationError("at least one target page is required")
	}
	if !scheduledTime.After(time.Now()) {
		return nil, models.NewValidationError("scheduled time must be in the future")
	}

	user, err := s.registry.GetByID(userID)
	if err != nil {
		return nil, err
	}

	// Intersect the submitted ids with the user's authorized pages, keeping
	// submission order. Stale or unauthorized ids are silently dropped.
	targets := []models.Page{}
	seen := map[string]bool{}
	for _, pageID := range targetPageIDs {
		if seen[pageID] {
			continue
		}
		seen[pageID] = true
		if page := user.GetPage(pageID); page != nil {
			targets = append(targets, *page)
		}
	}
	if len(targets) == 0 {
		return nil, models.NewValidationError("none of the selected pages are authorized")
	}

	enhanced := s.enhancer.EnhanceContent(ctx, originalText)

	// Persist before dispatching so a crash mid-dispatch never loses the
	// record.
	now := time.Now()
	post := &models.ScheduledPost{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		OriginalText:    originalText,
		EnhancedContent: enhanced,
		ScheduledTime:   scheduledTime,
		Status:          models.StatusScheduled,
		Results:         []models.PublishResult{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreatePost(post); err != nil {
		return nil, err
	}

	results := s.dispatch(ctx, post, targets)

	updated, err := s.store.UpdatePost(post.ID, database.PostPatch{Results: &results})
	if err != nil {
		return nil, err
	}

	utils.Infof("scheduled post created post_id=%s user_id=%s pages=%d failed=%d",
		post.ID, user.ID, len(results), len(updated.FailedResults()))
	return updated, nil
}

// dispatch fans out one publish call per target page. Calls run concurrently
// but each writes into its submission-order slot, so the aggregate is
// deterministic regardless of completion order.
func (s *PostService) dispatch(ctx context.Context, post *models.ScheduledPost, targets []models.Page) []models.PublishResult {
	results := make([]models.PublishResult, len(targets))
	var wg sync.WaitGroup

	for i, page := range targets {
		wg.Add(1)
		go func(idx int, page models.Page) {
			defer wg.Done()
			results[idx] = s.publishToPage(ctx, post, page)
		}(i, page)
	}

	wg.Wait()
	return results
}

func (s *PostService) publishToPage(ctx context.Context, post *models.ScheduledPost, page models.Page) models.PublishResult {
	result := models.PublishResult{
		PageID:    page.ID,
		PageName:  page.Name,
		Timestamp: time.Now(),
	}

	cred, err := s.registry.GetPage(post.UserID, page.ID)
	if err == nil {
		var externalID string
		externalID, err = s.publisher.CreateScheduledPost(ctx, page.ID, cred.AccessToken, post.EnhancedContent, post.ScheduledTime)
		if err == nil {
			result.PostID = externalID
			result.Status = models.ResultScheduled
			if s.recorder != nil {
				s.recorder.RecordDispatch("scheduled")
			}
			return result
		}
	}

	utils.Errorf("publish dispatch failed post_id=%s page_id=%s err=%v", post.ID, page.ID, err)
	result.Error = err.Error()
	result.Status = models.ResultFailed
	if s.recorder != nil {
		s.recorder.RecordDispatch("failed")
	}
	return result
}

// Cancel marks a post cancelled after best-effort deletion of every
// externally scheduled copy. The record is retained; List no longer returns
// it.
func (s *PostService) Cancel(ctx context.Context, postID, requestingUserID string) error {
	post, err := s.store.GetPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != requestingUserID {
		return models.NewForbiddenError("post belongs to another user")
	}
	if !post.CanBeCancelled() {
		return models.NewInvalidStateError("post can no longer be cancelled")
	}

	// The external platform being unreachable must not trap a post: delete
	// failures are logged and swallowed.
	for _, result := range post.SuccessfulResults() {
		page, err := s.registry.GetPage(post.UserID, result.PageID)
		if err != nil {
			utils.Warnf("skipping external delete, page no longer authorized post_id=%s page_id=%s", postID, result.PageID)
			continue
		}
		if err := s.publisher.DeletePost(ctx, result.PostID, page.AccessToken); err != nil {
			utils.Warnf("external delete failed post_id=%s external_post_id=%s err=%v", postID, result.PostID, err)
		}
	}

	status := models.StatusCancelled
	if _, err := s.store.UpdatePost(postID, database.PostPatch{Status: &status}); err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.RecordCancellation()
	}
	utils.Infof("post cancelled post_id=%s user_id=%s", postID, requestingUserID)
	return nil
}

// List returns the user's posts, newest-first per store ordering, excluding
// cancelled ones.
func (s *PostService) List(userID string) ([]*models.ScheduledPost, error) {
	posts, err := s.store.GetUserPosts(userID)
	if err != nil {
		return nil, err
	}

	active := []*models.ScheduledPost{}
	for _, p := range posts {
		if !p.IsCancelled() {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *PostService) GetByID(postID string) (*models.ScheduledPost, error) {
	return s.store.GetPost(postID)
}
