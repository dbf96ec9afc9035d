// Package net carries request scoped ids across transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/judell/word-replacer/internal/platform/logger"
)

// WithRequest stores reqID where both chi and the logger can read it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	// chimw.GetReqID reads this key
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// WithPage tags ctx with the live page id for logging
func WithPage(ctx context.Context, pageID string) context.Context {
	return logger.WithPage(ctx, pageID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
