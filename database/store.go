package database

import (
	"time"

	"PageSchedulerAPI/models"
)

// UserPatch enumerates the mutable fields of a User. A nil field is left
// untouched; unknown keys cannot merge in.
type UserPatch struct {
	Name        *string
	Email       *string
	AccessToken *string
	Pages       *[]models.Page
}

// PostPatch enumerates the mutable fields of a ScheduledPost.
type PostPatch struct {
	Status          *models.PostStatus
	EnhancedContent *string
	Results         *[]models.PublishResult
}

// ResultPatch enumerates the mutable fields of a single PublishResult,
// addressed by page id. Used when retrying a single page.
type ResultPatch struct {
	PostID *string
	Error  *string
	Status *models.ResultStatus
}

type UserStore interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByFacebookID(facebookID string) (*models.User, error)
	UpdateUser(id string, patch UserPatch) (*models.User, error)
}

type PostStore interface {
	CreatePost(post *models.ScheduledPost) error
	GetPost(id string) (*models.ScheduledPost, error)
	GetUserPosts(userID string) ([]*models.ScheduledPost, error)
	UpdatePost(id string, patch PostPatch) (*models.ScheduledPost, error)
	UpdatePostResult(postID, pageID string, patch ResultPatch) error
	DeletePost(id string) error
	DeletePostsCreatedBefore(cutoff time.Time) (int, error)
}

type SessionStore interface {
	CreateSession(session *models.Session) error
	GetSession(id string) (*models.Session, error)
	DeleteSession(id string) error
	DeleteSessionsCreatedBefore(cutoff time.Time) (int, error)
}

// Store is the full persistence surface. Both the Postgres-backed Database
// and the in-process MemoryStore implement it; services receive it at
// construction so tests can substitute doubles.
type Store interface {
	UserStore
	PostStore
	SessionStore
}
