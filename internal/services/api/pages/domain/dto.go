// Package domain holds DTOs and ports for attached pages
package domain

import (
	"context"
	"time"

	"github.com/judell/word-replacer/internal/driver"
)

// CreateInput is the markup of a page to attach
type CreateInput struct {
	HTML string `json:"html" validate:"nonblank,max=4000000" example:"<html><body><p>Musk</p></body></html>"`
}

// FragmentInput appends markup under every element matching Selector
type FragmentInput struct {
	Selector string `json:"selector" validate:"nonblank,max=1000" example:"body"`
	HTML     string `json:"html" validate:"nonblank,max=1000000" example:"<p>Elon Musk</p>"`
}

// Page describes an attached page
type Page struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Report    driver.Report `json:"report"`
}

// PageHTML is a page rendered as it currently stands
type PageHTML struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// FragmentResult reports how many elements received the fragment
type FragmentResult struct {
	ID      string `json:"id"`
	Matched int    `json:"matched"`
}

// ServicePort defines the service contract for pages
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (Page, error)
	List(ctx context.Context) []Page
	Get(ctx context.Context, id string) (PageHTML, error)
	Append(ctx context.Context, id string, in FragmentInput) (FragmentResult, error)
	Remove(ctx context.Context, id, selector string) (FragmentResult, error)
	Delete(ctx context.Context, id string) error
	Count() int
}
