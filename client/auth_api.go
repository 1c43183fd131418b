package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"allai/models"
)

// AuthAPI is the HTTP client for the auth backend.
type AuthAPI struct {
	client *resty.Client
}

func NewAuthAPI(baseURL string, timeout time.Duration) *AuthAPI {
	return &AuthAPI{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (a *AuthAPI) SignUp(ctx context.Context, name, email, password string) (models.AuthResponse, error) {
	return a.auth(ctx, "/api/auth/signup", models.SignUpRequest{Name: name, Email: email, Password: password})
}

func (a *AuthAPI) SignIn(ctx context.Context, email, password string) (models.AuthResponse, error) {
	return a.auth(ctx, "/api/auth/signin", models.SignInRequest{Email: email, Password: password})
}

func (a *AuthAPI) auth(ctx context.Context, path string, body interface{}) (models.AuthResponse, error) {
	resp, err := a.client.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return models.AuthResponse{}, err
	}
	if resp.IsError() {
		return models.AuthResponse{}, statusError(resp)
	}

	var result models.AuthResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if result.Token == "" {
		return models.AuthResponse{}, fmt.Errorf("auth response carried no token")
	}
	return result, nil
}

// Me fetches the account behind token.
func (a *AuthAPI) Me(ctx context.Context, token string) (models.PublicUser, error) {
	resp, err := a.client.R().SetContext(ctx).SetAuthToken(token).Get("/api/auth/me")
	if err != nil {
		return models.PublicUser{}, err
	}
	if resp.IsError() {
		return models.PublicUser{}, statusError(resp)
	}

	var result struct {
		User models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.PublicUser{}, fmt.Errorf("failed to parse user: %w", err)
	}
	return result.User, nil
}

// Enhance asks the backend to rewrite a prompt.
func (a *AuthAPI) Enhance(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.R().SetContext(ctx).SetBody(models.EnhanceRequest{Prompt: prompt}).Post("/api/enhance")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", statusError(resp)
	}

	var result models.EnhanceResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse enhance response: %w", err)
	}
	if result.Improved == "" {
		return prompt, nil
	}
	return result.Improved, nil
}
