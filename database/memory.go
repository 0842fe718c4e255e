package database

import (
	"sync"
	"time"

	"PageSchedulerAPI/models"
)

// MemoryStore is a process-memory Store. All mutations take the write lock,
// so the read-modify-write in UpdatePost/UpdateUser cannot lose updates even
// with concurrent requests. Reads return copies so callers never alias
// store-owned state.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	posts    map[string]*models.ScheduledPost
	sessions map[string]*models.Session

	// postOrder preserves insertion order for deterministic listings.
	postOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		posts:    make(map[string]*models.ScheduledPost),
		sessions: make(map[string]*models.Session),
	}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Pages = append([]models.Page(nil), u.Pages...)
	return &cp
}

func copyPost(p *models.ScheduledPost) *models.ScheduledPost {
	cp := *p
	cp.Results = append([]models.PublishResult(nil), p.Results...)
	return &cp
}

func (m *MemoryStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.FacebookID == user.FacebookID {
			return &models.ValidationError{Message: "facebook id already registered"}
		}
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *MemoryStore) GetUserByID(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.NewNotFoundError("user", id)
	}
	return copyUser(u), nil
}

func (m *MemoryStore) GetUserByFacebookID(facebookID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.FacebookID == facebookID {
			return copyUser(u), nil
		}
	}
	return nil, models.NewNotFoundError("user", "")
}

func (m *MemoryStore) UpdateUser(id string, patch UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.NewNotFoundError("user", id)
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.AccessToken != nil {
		u.AccessToken = *patch.AccessToken
	}
	if patch.Pages != nil {
		// Wholesale replace; a page moving between users is resolved here
		// too — last refresh wins ownership.
		u.Pages = append([]models.Page(nil), (*patch.Pages)...)
		for _, p := range u.Pages {
			m.evictPageFromOthers(id, p.ID)
		}
	}
	u.UpdatedAt = time.Now()
	return copyUser(u), nil
}

func (m *MemoryStore) evictPageFromOthers(ownerID, pageID string) {
	for uid, other := range m.users {
		if uid == ownerID {
			continue
		}
		kept := other.Pages[:0]
		for _, p := range other.Pages {
			if p.ID != pageID {
				kept = append(kept, p)
			}
		}
		other.Pages = kept
	}
}

func (m *MemoryStore) CreatePost(post *models.ScheduledPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[post.ID] = copyPost(post)
	m.postOrder = append(m.postOrder, post.ID)
	return nil
}

func (m *MemoryStore) GetPost(id string) (*models.ScheduledPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("post", id)
	}
	return copyPost(p), nil
}

func (m *MemoryStore) GetUserPosts(userID string) ([]*models.ScheduledPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []*models.ScheduledPost{}
	for _, id := range m.postOrder {
		if p, ok := m.posts[id]; ok && p.UserID == userID {
			posts = append(posts, copyPost(p))
		}
	}
	return posts, nil
}

func (m *MemoryStore) UpdatePost(id string, patch PostPatch) (*models.ScheduledPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("post", id)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.EnhancedContent != nil {
		p.EnhancedContent = *patch.EnhancedContent
	}
	if patch.Results != nil {
		p.Results = append([]models.PublishResult(nil), (*patch.Results)...)
	}
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}

func (m *MemoryStore) UpdatePostResult(postID, pageID string, patch ResultPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return models.NewNotFoundError("post", postID)
	}
	for i := range p.Results {
		if p.Results[i].PageID != pageID {
			continue
		}
		if patch.PostID != nil {
			p.Results[i].PostID = *patch.PostID
		}
		if patch.Error != nil {
			p.Results[i].Error = *patch.Error
		}
		if patch.Status != nil {
			p.Results[i].Status = *patch.Status
		}
		p.UpdatedAt = time.Now()
		return nil
	}
	return models.NewNotFoundError("result for page", pageID)
}

func (m *MemoryStore) DeletePost(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return models.NewNotFoundError("post", id)
	}
	delete(m.posts, id)
	for i, pid := range m.postOrder {
		if pid == id {
			m.postOrder = append(m.postOrder[:i], m.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

// DeletePostsCreatedBefore takes its own pass over a snapshot of ids so a
// concurrent create/cancel is never blocked for longer than one map delete.
func (m *MemoryStore) DeletePostsCreatedBefore(cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	kept := m.postOrder[:0]
	for _, id := range m.postOrder {
		p, ok := m.posts[id]
		if ok && p.CreatedAt.Before(cutoff) {
			delete(m.posts, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.postOrder = kept
	return deleted, nil
}

func (m *MemoryStore) CreateSession(session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *MemoryStore) GetSession(id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, models.NewNotFoundError("session", id)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) DeleteSessionsCreatedBefore(cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
