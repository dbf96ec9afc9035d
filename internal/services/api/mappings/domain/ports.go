package domain

import "context"

// ServicePort defines the service contract for mappings
type ServicePort interface {
	Get(ctx context.Context) View
	Replace(ctx context.Context, in Document) (View, error)
	PutEntry(ctx context.Context, in EntryInput) (View, error)
	DeleteEntry(ctx context.Context, target string) (View, error)
	AddException(ctx context.Context, in ExceptionInput) (View, error)
	DeleteException(ctx context.Context, phrase string) (View, error)
}
