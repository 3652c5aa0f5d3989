package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ConversationIDHeader carries the id correlating a client's requests.
const ConversationIDHeader = "X-Conversation-Id"

const maxConversationIDLen = 128

// Conversation echoes the caller's X-Conversation-Id or assigns a new UUID,
// and stores it in the request context.
func Conversation() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ConversationIDHeader))
			if id == "" || len(id) > maxConversationIDLen {
				id = uuid.NewString()
			}

			w.Header().Set(ConversationIDHeader, id)
			ctx := context.WithValue(r.Context(), conversationIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
