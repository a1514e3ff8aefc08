package pullrequest

import (
	"context"

	"github.com/pkg/errors"
)

// Resolver memoizes pull request lookups for the lifetime of one run.
// Entries are keyed by the bare pull request number, so a Resolver must only
// ever serve a single repository.
type Resolver struct {
	repo  Repository
	cache map[EntityID]*Entity
}

func NewResolver(r Repository) *Resolver {
	return &Resolver{
		repo:  r,
		cache: make(map[EntityID]*Entity),
	}
}

// Get returns the cached pull request for id, fetching it from the code host
// on first use. Failed lookups are not cached.
func (r *Resolver) Get(ctx context.Context, repo GitRepository, id EntityID) (*Entity, error) {
	if pr, ok := r.cache[id]; ok {
		return pr, nil
	}

	pr, err := r.repo.Get(ctx, &GetOptions{
		Repository: repo,
		ID:         id,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot fetch pull request #%d", id)
	}

	r.cache[id] = pr

	return pr, nil
}

// ListOpen lists the currently open pull requests. Results are not cached.
func (r *Resolver) ListOpen(ctx context.Context, repo GitRepository) ([]*Entity, error) {
	return r.repo.ListOpen(ctx, &ListOptions{Repository: repo})
}

// ResolveAll resolves ids one at a time, in order. Each lookup completes
// before the next one starts and onResolved, when set, is called after each
// success. The first failure stops the walk and is returned as is.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	repo GitRepository,
	ids []EntityID,
	onResolved func(*Entity),
) (map[EntityID]*Entity, error) {
	resolved := make(map[EntityID]*Entity, len(ids))
	for _, id := range ids {
		pr, err := r.Get(ctx, repo, id)
		if err != nil {
			return nil, err
		}

		resolved[id] = pr
		if onResolved != nil {
			onResolved(pr)
		}
	}

	return resolved, nil
}
