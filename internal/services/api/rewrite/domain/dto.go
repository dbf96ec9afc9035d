// Package domain holds DTOs for one-shot rewrites
package domain

import (
	"context"

	"github.com/judell/word-replacer/internal/core/rewriter"
	"github.com/judell/word-replacer/internal/driver"
)

// TextInput is plain text to rewrite; empty text comes back unchanged
type TextInput struct {
	Text string `json:"text" validate:"max=1048576" example:"Elon Musk said hi"`
}

// TextResult is the rewritten text with its spans
type TextResult = rewriter.Result

// HTMLInput is a document or fragment to rewrite
type HTMLInput struct {
	HTML string `json:"html" validate:"nonblank,max=4000000" example:"<p>Musk</p>"`
}

// HTMLResult is the rewritten markup and the scan report
type HTMLResult struct {
	HTML   string        `json:"html"`
	Report driver.Report `json:"report"`
}

// ServicePort defines the service contract for rewrites
type ServicePort interface {
	Text(ctx context.Context, in TextInput) TextResult
	HTML(ctx context.Context, in HTMLInput) (HTMLResult, error)
}
