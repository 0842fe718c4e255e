package config

import "os"

type Config struct {
	Port        string
	BaseURL     string
	DatabaseURL string
	JWTSecret   []byte

	FacebookAppID       string
	FacebookAppSecret   string
	FacebookRedirectURI string
	FacebookVersion     string

	OpenAIAPIKey string
	OpenAIModel  string

	TokenEncryptionKey string
	LogLevel           string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(getEnv("JWT_SECRET", "your-secret-key-change-in-production")),

		FacebookAppID:       os.Getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret:   os.Getenv("FACEBOOK_APP_SECRET"),
		FacebookRedirectURI: getEnv("FACEBOOK_REDIRECT_URI", "http://localhost:8080/auth/facebook/callback"),
		FacebookVersion:     getEnv("FACEBOOK_API_VERSION", "v23.0"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
