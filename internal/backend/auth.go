package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

type LoginResult struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	User         *model.UserSummary `json:"user"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.Do(ctx, "", http.MethodPost, "/api/auth/login", nil, body)
	if err != nil {
		return LoginResult{}, err
	}
	var out LoginResult
	if len(env.RawData) > 0 {
		if err := json.Unmarshal(env.RawData, &out); err != nil {
			return LoginResult{}, fmt.Errorf("decode login response: %w", err)
		}
	}
	// Some deployments nest the pair under data.tokens.
	if out.AccessToken == "" {
		if raw, ok := env.Data["tokens"]; ok {
			_ = json.Unmarshal(raw, &out)
		}
	}
	if out.AccessToken == "" {
		return LoginResult{}, &APIError{Status: http.StatusBadGateway, Message: "login response carried no access token"}
	}
	return out, nil
}

// Logout revokes the refresh token. Failures are informational only; the
// local session is cleared regardless.
func (c *Client) Logout(ctx context.Context, token, refreshToken string) error {
	_, err := c.Do(ctx, token, http.MethodPost, "/api/auth/logout", nil, map[string]string{"refreshToken": refreshToken})
	return err
}

// IsProjectLeader asks the backend whether userID leads any project.
func (c *Client) IsProjectLeader(ctx context.Context, token, userID string) (bool, error) {
	query := url.Values{}
	query.Set("userId", userID)
	env, err := c.Do(ctx, token, http.MethodGet, "/api/projects/leader-status", query, nil)
	if err != nil {
		return false, err
	}
	var out struct {
		IsProjectLeader bool `json:"isProjectLeader"`
	}
	if len(env.RawData) > 0 {
		if err := json.Unmarshal(env.RawData, &out); err != nil {
			return false, fmt.Errorf("decode leader status: %w", err)
		}
	}
	return out.IsProjectLeader, nil
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.Do(ctx, "", http.MethodGet, "/api/health", nil, nil)
	return err
}
