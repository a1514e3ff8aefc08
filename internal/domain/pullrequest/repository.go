package pullrequest

import "context"

type Repository interface {
	Get(context.Context, *GetOptions) (*Entity, error)
	ListOpen(context.Context, *ListOptions) ([]*Entity, error)
}

type GetOptions struct {
	Repository GitRepository
	ID         EntityID
}

type ListOptions struct {
	Repository GitRepository
}
