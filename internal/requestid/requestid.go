// Package requestid threads a per-request correlation ID through contexts
// so log lines from the middleware, the handlers, and the AI collaborator
// calls can be joined per triage request.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header carries the correlation ID on requests and responses. Inbound
// values are honored as-is so an upstream proxy can pre-assign IDs.
const Header = "X-Request-ID"

type ctxKey struct{}

// Ensure returns inbound unchanged when the client already supplied an ID,
// otherwise mints a fresh one.
func Ensure(inbound string) string {
	if inbound != "" {
		return inbound
	}
	return uuid.New().String()
}

// Into returns a context carrying the request ID.
func Into(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the request ID carried by ctx, or "" when there is none.
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
