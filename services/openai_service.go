package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PageSchedulerAPI/models"
	"PageSchedulerAPI/utils"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"

	// analysisUnavailable is returned when the provider cannot be reached;
	// analysis degrades to a fixed notice instead of an error.
	analysisUnavailable = "Content analysis is temporarily unavailable."

	enhanceSystemRole = "You are an expert social media copywriter for Facebook. " +
		"You produce engaging, community-standards-compliant content with high engagement potential."

	analyzeSystemRole = "You are an expert social media content analyst."
)

// FallbackRecorder is notified whenever an enhancement call degrades to the
// original input. Satisfied by metrics.Collector.
type FallbackRecorder interface {
	RecordEnhancementFallback()
}

// OpenAIService wraps the chat-completions API. Every provider failure is
// converted into returning the caller's original text — enhancement must
// never block or fail post creation.
type OpenAIService struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	recorder FallbackRecorder
}

func NewOpenAIService(apiKey, model string, recorder FallbackRecorder) *OpenAIService {
	return &OpenAIService{
		apiKey:   apiKey,
		model:    model,
		baseURL:  openAIBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		recorder: recorder,
	}
}

// SetBaseURL overrides the provider host. Used by tests.
func (s *OpenAIService) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EnhanceContent rewrites raw text into a social-ready variant. On any
// failure the original text is returned unchanged.
func (s *OpenAIService) EnhanceContent(ctx context.Context, originalText string) string {
	prompt := fmt.Sprintf("Rewrite the following post so it reads differently from the original "+
		"while staying factual: %q. The rewrite must be creative, use emoji and hashtags, and be "+
		"formatted into short readable paragraphs that invite likes, shares and comments.", originalText)

	enhanced, err := s.chatCompletion(ctx, enhanceSystemRole, prompt, 500, 0.8)
	if err != nil {
		utils.Warnf("content enhancement failed, falling back to original text: %v", err)
		if s.recorder != nil {
			s.recorder.RecordEnhancementFallback()
		}
		return originalText
	}
	return enhanced
}

// GenerateVariations produces count independent rewrites. Each failed call
// falls back to the original text for that slot, so the result always has
// exactly count entries.
func (s *OpenAIService) GenerateVariations(ctx context.Context, originalText string, count int) []string {
	variations := make([]string, count)
	for i := 0; i < count; i++ {
		prompt := fmt.Sprintf("Create a new social media post from this original text: %q. "+
			"It must differ from the original, include fitting emoji and hashtags, be easy to read, "+
			"drive engagement and stay under 200 words.", originalText)

		v, err := s.chatCompletion(ctx, enhanceSystemRole, prompt, 300, 0.9)
		if err != nil {
			utils.Warnf("variation %d failed, falling back to original text: %v", i+1, err)
			if s.recorder != nil {
				s.recorder.RecordEnhancementFallback()
			}
			v = originalText
		}
		variations[i] = v
	}
	return variations
}

// AnalyzeContent returns a freeform report on the text, or a fixed notice
// when the provider is unavailable.
func (s *OpenAIService) AnalyzeContent(ctx context.Context, content string) string {
	prompt := fmt.Sprintf("Analyze this social media content: %q. Score it 1-10 on appeal, "+
		"fit for Facebook, engagement potential and creativity, then suggest improvements.", content)

	analysis, err := s.chatCompletion(ctx, analyzeSystemRole, prompt, 400, 0.3)
	if err != nil {
		utils.Warnf("content analysis failed: %v", err)
		return analysisUnavailable
	}
	return analysis
}

func (s *OpenAIService) chatCompletion(ctx context.Context, systemRole, userPrompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemRole},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", models.NewExternalAPIError("OpenAI", err.Error(), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewExternalAPIError("OpenAI", err.Error(), 0)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", models.NewExternalAPIError("OpenAI", "malformed response: "+err.Error(), resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		message := chatResp.Error.Message
		if message == "" {
			message = string(body)
		}
		return "", models.NewExternalAPIError("OpenAI", message, resp.StatusCode)
	}

	if len(chatResp.Choices) == 0 {
		return "", models.NewExternalAPIError("OpenAI", "response contained no choices", resp.StatusCode)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
