package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/innervoice/innervoice-go/internal/model"
)

// ErrUserNotFound is returned when the identity service answers without a user.
var ErrUserNotFound = errors.New("user not found")

// IdentityError is a non-success answer from the identity service.
type IdentityError struct {
	Status  int
	Message string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity service returned %d: %s", e.Status, e.Message)
}

// GetUser resolves an access token to the user it was issued for. It makes
// exactly one request and never retries.
func (c *Client) GetUser(ctx context.Context, token string) (*model.Identity, error) {
	if c.baseURL == "" {
		return nil, errors.New("datastore: identity service URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &IdentityError{Status: resp.StatusCode, Message: identityErrorMessage(body, resp.Status)}
	}

	var user model.Identity
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrUserNotFound
	}

	return &user, nil
}

// identityErrorMessage extracts the human readable message from the identity
// service's error body, whichever of its known shapes it uses.
func identityErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	for _, s := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
		if s != "" {
			return s
		}
	}
	return fallback
}
