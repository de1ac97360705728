package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Inviter abstracts the identity service's invite-by-email operation.
// The real client talks to the Supabase Auth admin API; tests use a double.
type Inviter interface {
	InviteUserByEmail(ctx context.Context, email, fullName string) (*InvitedUser, error)
}

// InvitedUser is the identity record returned by the invite call.
type InvitedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// HTTPClient is an Inviter backed by the Supabase Auth admin HTTP API.
// The invite endpoint creates the identity and sends the provider's own
// invitation email as a side effect.
type HTTPClient struct {
	BaseURL    string
	ServiceKey string
	Client     *http.Client
}

type inviteRequest struct {
	Email string                 `json:"email"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type inviteErrorResponse struct {
	Message  string `json:"message"`
	Msg      string `json:"msg"`
	ErrorMsg string `json:"error"`
}

func (c *HTTPClient) InviteUserByEmail(ctx context.Context, email, fullName string) (*InvitedUser, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("identity: SUPABASE_URL is not set")
	}
	if c.ServiceKey == "" {
		return nil, fmt.Errorf("identity: SUPABASE_SERVICE_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := base + "/auth/v1/invite"

	bodyBytes, err := json.Marshal(inviteRequest{
		Email: email,
		Data:  map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	// Match supabase-js admin client: both apikey and Authorization Bearer (same key)
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the remote message verbatim; the admin UI shows it as-is.
		var e inviteErrorResponse
		if json.Unmarshal(respBody, &e) == nil {
			for _, m := range []string{e.Message, e.Msg, e.ErrorMsg} {
				if m != "" {
					return nil, fmt.Errorf("%s", m)
				}
			}
		}
		return nil, fmt.Errorf("identity error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var user InvitedUser
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("identity response decode: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity returned no user id, body: %s", string(respBody))
	}
	return &user, nil
}
