// Package auth verifies bearer tokens against the identity service.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/innervoice/innervoice-go/internal/apperr"
	"github.com/innervoice/innervoice-go/internal/model"
)

// IdentityResolver resolves an access token to its user.
type IdentityResolver interface {
	GetUser(ctx context.Context, token string) (*model.Identity, error)
}

// Verifier turns bearer tokens into identities.
type Verifier struct {
	resolver IdentityResolver
	now      func() time.Time
}

// NewVerifier creates a Verifier backed by the given resolver.
func NewVerifier(resolver IdentityResolver) *Verifier {
	return &Verifier{resolver: resolver, now: time.Now}
}

// Verify resolves token to an identity. Every failure, local or remote, is an
// apperr.KindUnauthorized error whose message carries the cause.
func (v *Verifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	fp := Fingerprint(token)

	if _, err := InspectToken(token, v.now()); err != nil {
		slog.Warn("token rejected before lookup", "token_fp", fp, "error", err)
		return nil, unauthorized(err)
	}

	user, err := v.resolver.GetUser(ctx, token)
	if err != nil {
		slog.Warn("identity lookup failed", "token_fp", fp, "error", err)
		return nil, unauthorized(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid token: User not found.", nil)
	}

	slog.Debug("user authenticated", "token_fp", fp, "user_id", user.ID)
	return user, nil
}

func unauthorized(err error) *apperr.Error {
	return apperr.Unauthorized(fmt.Sprintf("Invalid token: %v", err), err)
}
