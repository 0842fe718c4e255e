package publishers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"PageSchedulerAPI/models"
)

const graphBaseURL = "https://graph.facebook.com"

// FacebookClient wraps the Graph API operations the scheduler needs: page
// listing, scheduled-post creation and post deletion. It is stateless besides
// the credentials passed per call.
type FacebookClient struct {
	client     *http.Client
	apiVersion string
	baseURL    string
}

// NewFacebookClient creates a FacebookClient with an injectable http.Client.
// If nil is passed, a default client with a sensible timeout is used.
func NewFacebookClient(apiVersion string, client *http.Client) *FacebookClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &FacebookClient{
		client:     client,
		apiVersion: apiVersion,
		baseURL:    graphBaseURL,
	}
}

// SetBaseURL overrides the Graph API host. Used by tests.
func (f *FacebookClient) SetBaseURL(baseURL string) {
	f.baseURL = baseURL
}

type FacebookUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type facebookPagesResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		AccessToken string `json:"access_token"`
		Picture     struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	} `json:"data"`
}

type facebookPostResponse struct {
	ID string `json:"id"`
}

type facebookAckResponse struct {
	Success bool `json:"success"`
}

type facebookErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// GetUserInfo returns the identity bound to a user access token.
func (f *FacebookClient) GetUserInfo(ctx context.Context, accessToken string) (*FacebookUser, error) {
	endpoint := fmt.Sprintf("%s/%s/me?fields=id,name,email&access_token=%s",
		f.baseURL, f.apiVersion, url.QueryEscape(accessToken))

	var user FacebookUser
	if err := f.get(ctx, endpoint, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPages returns the pages the token's user manages, with their page-scoped
// access tokens, in the order the API returns them.
func (f *FacebookClient) ListPages(ctx context.Context, accessToken string) ([]models.Page, error) {
	endpoint := fmt.Sprintf("%s/%s/me/accounts?fields=id,name,access_token,category,picture&access_token=%s",
		f.baseURL, f.apiVersion, url.QueryEscape(accessToken))

	var resp facebookPagesResponse
	if err := f.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	pages := make([]models.Page, len(resp.Data))
	for i, p := range resp.Data {
		pages[i] = models.Page{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			AccessToken: p.AccessToken,
			PictureURL:  p.Picture.Data.URL,
		}
	}
	return pages, nil
}

// CreateScheduledPost creates an unpublished feed post with a future
// scheduled_publish_time and returns the external post id.
func (f *FacebookClient) CreateScheduledPost(ctx context.Context, pageID, pageAccessToken, message string, publishAt time.Time) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/feed", f.baseURL, f.apiVersion, pageID)

	payload := map[string]interface{}{
		"message":                message,
		"published":              false,
		"scheduled_publish_time": publishAt.Unix(),
		"access_token":           pageAccessToken,
	}

	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var postResp facebookPostResponse
	if err := f.do(req, &postResp); err != nil {
		return "", err
	}
	return postResp.ID, nil
}

// DeletePost deletes a (scheduled) post. The access token must be scoped to
// the page that owns the post.
func (f *FacebookClient) DeletePost(ctx context.Context, postID, accessToken string) error {
	endpoint := fmt.Sprintf("%s/%s/%s?access_token=%s",
		f.baseURL, f.apiVersion, postID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	var ack facebookAckResponse
	return f.do(req, &ack)
}

func (f *FacebookClient) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return f.do(req, out)
}

// do executes the request and translates non-200 Graph responses into an
// ExternalAPIError carrying the provider's message.
func (f *FacebookClient) do(req *http.Request, out interface{}) error {
	resp, err := f.client.Do(req)
	if err != nil {
		return models.NewExternalAPIError("Facebook", err.Error(), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewExternalAPIError("Facebook", err.Error(), 0)
	}

	if resp.StatusCode != http.StatusOK {
		var fbError facebookErrorResponse
		json.Unmarshal(body, &fbError)
		message := fbError.Error.Message
		if message == "" {
			message = string(body)
		}
		return models.NewExternalAPIError("Facebook", message, fbError.Error.Code)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return models.NewExternalAPIError("Facebook", "malformed response: "+err.Error(), 0)
	}
	return nil
}
