package services

import (
	"errors"
	"time"

	"PageSchedulerAPI/database"
	"PageSchedulerAPI/models"
	"PageSchedulerAPI/utils"

	"github.com/google/uuid"
)

// UserService is the user/page registry. It owns User entities and their
// authorized page lists and supplies page credentials to the post lifecycle.
// Access tokens are encrypted before they reach the store.
type UserService struct {
	store database.Store
}

func NewUserService(store database.Store) *UserService {
	return &UserService{store: store}
}

// FindOrCreateByFacebookID creates a user on first login and refreshes the
// stored credential and profile on every subsequent login.
func (s *UserService) FindOrCreateByFacebookID(facebookID, name, email, accessToken string) (*models.User, error) {
	encrypted, err := utils.EncryptToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByFacebookID(facebookID)
	if err != nil {
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		now := time.Now()
		user = &models.User{
			ID:          uuid.New().String(),
			FacebookID:  facebookID,
			Name:        name,
			Email:       email,
			AccessToken: encrypted,
			Pages:       []models.Page{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.store.CreateUser(user); err != nil {
			return nil, err
		}
		utils.Infof("registered new user user_id=%s facebook_id=%s", user.ID, facebookID)
		return user, nil
	}

	return s.store.UpdateUser(user.ID, database.UserPatch{
		Name:        &name,
		Email:       &email,
		AccessToken: &encrypted,
	})
}

// RefreshPages replaces the user's authorized page list wholesale. A page
// that was authorized previously but is absent from the new list is dropped.
func (s *UserService) RefreshPages(userID string, pages []models.Page) (*models.User, error) {
	stored := make([]models.Page, len(pages))
	for i, p := range pages {
		encrypted, err := utils.EncryptToken(p.AccessToken)
		if err != nil {
			return nil, err
		}
		stored[i] = p
		stored[i].AccessToken = encrypted
	}

	user, err := s.store.UpdateUser(userID, database.UserPatch{Pages: &stored})
	if err != nil {
		return nil, err
	}
	utils.Infof("refreshed pages user_id=%s page_count=%d", userID, len(stored))
	return user, nil
}

func (s *UserService) GetByID(userID string) (*models.User, error) {
	return s.store.GetUserByID(userID)
}

// GetCredential returns the user's own Graph credential, decrypted.
func (s *UserService) GetCredential(userID string) (string, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return utils.DecryptToken(user.AccessToken)
}

// GetPage returns the user's authorized page with its credential decrypted,
// ready to hand to the publishing adapter.
func (s *UserService) GetPage(userID, pageID string) (*models.Page, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	page := user.GetPage(pageID)
	if page == nil {
		return nil, models.NewNotFoundError("page", pageID)
	}

	token, err := utils.DecryptToken(page.AccessToken)
	if err != nil {
		return nil, err
	}

	cp := *page
	cp.AccessToken = token
	return &cp, nil
}
