package services

import (
	"context"
	"fmt"
	"time"

	"PageSchedulerAPI/config"
	"PageSchedulerAPI/database"
	"PageSchedulerAPI/models"
	"PageSchedulerAPI/publishers"
	"PageSchedulerAPI/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// AuthService runs the Facebook login flow and issues session tokens. The
// OAuth provider is treated as a black box: code in, identity and pages out.
type AuthService struct {
	store     database.Store
	registry  *UserService
	fb        *publishers.FacebookClient
	oauth     *oauth2.Config
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config, store database.Store, registry *UserService, fb *publishers.FacebookClient) *AuthService {
	return &AuthService{
		store:    store,
		registry: registry,
		fb:       fb,
		oauth: &oauth2.Config{
			ClientID:     cfg.FacebookAppID,
			ClientSecret: cfg.FacebookAppSecret,
			Endpoint:     facebook.Endpoint,
			RedirectURL:  cfg.FacebookRedirectURI,
			Scopes:       []string{"pages_show_list", "pages_manage_posts", "pages_read_engagement"},
		},
		jwtSecret: cfg.JWTSecret,
	}
}

// AuthURL returns the Facebook OAuth dialog URL for the given CSRF state.
func (a *AuthService) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// HandleCallback completes the login: exchanges the code, loads the Facebook
// identity and page list, upserts the user through the registry, and opens a
// session.
func (a *AuthService) HandleCallback(ctx context.Context, code string) (*models.User, string, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", models.NewExternalAPIError("Facebook", "token exchange failed: "+err.Error(), 0)
	}

	info, err := a.fb.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, "", err
	}

	user, err := a.registry.FindOrCreateByFacebookID(info.ID, info.Name, info.Email, token.AccessToken)
	if err != nil {
		return nil, "", err
	}

	pages, err := a.fb.ListPages(ctx, token.AccessToken)
	if err != nil {
		return nil, "", err
	}
	user, err = a.registry.RefreshPages(user.ID, pages)
	if err != nil {
		return nil, "", err
	}

	sessionToken, err := a.OpenSession(user.ID)
	if err != nil {
		return nil, "", err
	}

	utils.Infof("login completed user_id=%s facebook_id=%s pages=%d", user.ID, info.ID, len(pages))
	return user, sessionToken, nil
}

// RefreshUserPages re-fetches the page list from Facebook with the user's
// stored credential and replaces the registry's copy wholesale.
func (a *AuthService) RefreshUserPages(ctx context.Context, userID string) (*models.User, error) {
	token, err := a.registry.GetCredential(userID)
	if err != nil {
		return nil, err
	}

	pages, err := a.fb.ListPages(ctx, token)
	if err != nil {
		return nil, err
	}

	return a.registry.RefreshPages(userID, pages)
}

// OpenSession persists a session row and returns the signed token for it.
func (a *AuthService) OpenSession(userID string) (string, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := a.store.CreateSession(session); err != nil {
		return "", err
	}

	claims := Claims{
		UserID:    userID,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken checks the signature and that the session row still exists,
// so logout and the retention sweep both revoke tokens.
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if _, err := a.store.GetSession(claims.SessionID); err != nil {
		return nil, fmt.Errorf("session expired")
	}

	return claims, nil
}

// Logout drops the session row; the token stops validating immediately.
func (a *AuthService) Logout(sessionID string) error {
	return a.store.DeleteSession(sessionID)
}
