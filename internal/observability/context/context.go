// Package context carries request-scoped correlation identifiers.
package context

import "context"

type keyType string

const (
	requestIDKey keyType = "request_id"
	orgIDKey     keyType = "org_id"
	subjectKey   keyType = "subject"
)

// WithRequestID attaches a request identifier to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request identifier, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithOrgID attaches the caller's organization id to the context.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// OrgIDFromContext returns the caller's organization id, or "".
func OrgIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(orgIDKey).(string)
	return id
}

// WithSubject attaches the authenticated subject to the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext returns the authenticated subject, or "".
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}
