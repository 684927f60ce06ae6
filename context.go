package goSession

import "context"

// requestMeta is the per-request caller information copied into audit events.
type requestMeta struct {
	clientIP  string
	userAgent string
}

type requestMetaKey struct{}

func metaFrom(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	m, _ := ctx.Value(requestMetaKey{}).(requestMeta)
	return m
}

// WithClientIP records the caller's address on ctx. Audit events carry it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	m := metaFrom(ctx)
	m.clientIP = ip
	return context.WithValue(ctx, requestMetaKey{}, m)
}

// WithUserAgent records the caller's User-Agent header on ctx.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	m := metaFrom(ctx)
	m.userAgent = userAgent
	return context.WithValue(ctx, requestMetaKey{}, m)
}

func clientIPFromContext(ctx context.Context) string { return metaFrom(ctx).clientIP }

func userAgentFromContext(ctx context.Context) string { return metaFrom(ctx).userAgent }
