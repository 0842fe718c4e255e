package models

import "time"

type PostStatus string

const (
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
	StatusCancelled PostStatus = "cancelled"
)

type ResultStatus string

const (
	ResultScheduled ResultStatus = "scheduled"
	ResultFailed    ResultStatus = "failed"
)

// User is an account created from a Facebook login. FacebookID is unique
// across users; AccessToken is the user-scoped Graph credential and is never
// serialized.
type User struct {
	ID          string    `json:"id"`
	FacebookID  string    `json:"facebook_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	Pages       []Page    `json:"pages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Page is a Facebook Page the user has authorized. It is a value embedded in
// User, not a standalone entity — a registry refresh replaces the whole list.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	AccessToken string `json:"-"`
	PictureURL  string `json:"picture_url,omitempty"`
}

// ScheduledPost tracks a user submission through enhancement, per-page
// dispatch and cancellation. Results holds one entry per target page in
// page-submission order.
type ScheduledPost struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	OriginalText    string          `json:"original_text"`
	EnhancedContent string          `json:"enhanced_content"`
	ScheduledTime   time.Time       `json:"scheduled_time"`
	Status          PostStatus      `json:"status"`
	Results         []PublishResult `json:"results"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PublishResult is the per-page outcome of one dispatch. Either PostID is set
// with status "scheduled" or Error is set with status "failed".
type PublishResult struct {
	PageID    string       `json:"page_id"`
	PageName  string       `json:"page_name"`
	PostID    string       `json:"post_id,omitempty"`
	Error     string       `json:"error,omitempty"`
	Status    ResultStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

// Session is a logged-in browser session. The sweeper drops sessions older
// than 24 hours.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *ScheduledPost) IsScheduled() bool { return p.Status == StatusScheduled }
func (p *ScheduledPost) IsCancelled() bool { return p.Status == StatusCancelled }

// CanBeCancelled is re-evaluated at call time: a post is cancellable only
// while it is still scheduled and its publish time has not passed.
func (p *ScheduledPost) CanBeCancelled() bool {
	return p.Status == StatusScheduled && p.ScheduledTime.After(time.Now())
}

// SuccessfulResults returns the results whose dispatch succeeded, in order.
func (p *ScheduledPost) SuccessfulResults() []PublishResult {
	return p.resultsByStatus(ResultScheduled)
}

// FailedResults returns the results whose dispatch failed, in order.
func (p *ScheduledPost) FailedResults() []PublishResult {
	return p.resultsByStatus(ResultFailed)
}

func (p *ScheduledPost) resultsByStatus(status ResultStatus) []PublishResult {
	out := []PublishResult{}
	for _, r := range p.Results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// GetPage returns the authorized page with the given id, or nil.
func (u *User) GetPage(pageID string) *Page {
	for i := range u.Pages {
		if u.Pages[i].ID == pageID {
			return &u.Pages[i]
		}
	}
	return nil
}

type CreatePostRequest struct {
	OriginalText  string   `json:"original_text"`
	SelectedPages []string `json:"selected_pages"`
	ScheduledTime string   `json:"scheduled_time"`
}

type VariationsRequest struct {
	OriginalText string `json:"original_text"`
	Count        int    `json:"count"`
}

type AnalyzeRequest struct {
	Content string `json:"content"`
}
