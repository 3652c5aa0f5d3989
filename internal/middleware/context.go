package middleware

import (
	"context"

	"github.com/innervoice/innervoice-go/internal/model"
)

type contextKey string

const (
	identityKey       contextKey = "identity"
	conversationIDKey contextKey = "conversationID"
	requestInfoKey    contextKey = "requestInfo"
)

// requestInfo is shared between the outer logging middleware and handlers
// further down the chain, which see a derived context.
type requestInfo struct {
	userID string
}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok && id != nil {
		info.userID = id.ID
	}
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*model.Identity)
	return id, ok && id != nil
}

// UserIDFromContext returns the authenticated user id, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := IdentityFromContext(ctx); ok {
		return id.ID
	}
	return ""
}

// ConversationIDFromContext returns the conversation id assigned to the request.
func ConversationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(conversationIDKey).(string)
	return id
}
