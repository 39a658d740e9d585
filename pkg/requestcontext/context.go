// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing any
// net/http code. Tests inject them directly:
//
//	ctx = requestcontext.WithActor(ctx, "subject-id", "owner")
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	actorSubjectKey struct{}
	actorRoleKey    struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
	clientIPKey     struct{}
	userAgentKey    struct{}
)

// ActorSubject retrieves the authenticated actor's subject id. Empty if the
// request is unauthenticated.
func ActorSubject(ctx context.Context) string {
	if s, ok := ctx.Value(actorSubjectKey{}).(string); ok {
		return s
	}
	return ""
}

// ActorRole retrieves the authenticated actor's role claim.
func ActorRole(ctx context.Context) string {
	if r, ok := ctx.Value(actorRoleKey{}).(string); ok {
		return r
	}
	return ""
}

// WithActor injects an actor subject and role into the context.
func WithActor(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, actorSubjectKey{}, subject)
	return context.WithValue(ctx, actorRoleKey{}, role)
}

// RequestID retrieves the correlation id for the current request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts such as workers and tests that do not
// pin a clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by the request-time
// middleware and by tests that need a deterministic clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the parsed User-Agent description from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}
