package handlers

import (
	"PageSchedulerAPI/services"
)

type Handler struct {
	posts             *services.PostService
	users             *services.UserService
	authService       *services.AuthService
	openai            *services.OpenAIService
	oauthStateService *services.OAuthStateService
}

func NewHandler(posts *services.PostService, users *services.UserService, authService *services.AuthService, openai *services.OpenAIService, oauthStateService *services.OAuthStateService) *Handler {
	return &Handler{
		posts:             posts,
		users:             users,
		authService:       authService,
		openai:            openai,
		oauthStateService: oauthStateService,
	}
}
