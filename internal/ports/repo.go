package ports

import (
	"context"

	"depman/internal/types"
)

// ResolverPort is a named repository endpoint that modules are fetched
// from and published to.
type ResolverPort interface {
	Name() string
	Scheme() types.VersionScheme

	// ListVersions returns the versions hosted for group:module. A module
	// the resolver does not know yields a NotFound error.
	ListVersions(ctx context.Context, group string, module string) ([]string, error)
	Get(ctx context.Context, ref types.ArtifactRef, dest string) error
	Put(ctx context.Context, ref types.ArtifactRef, src string, overwrite bool) error
}

// ResolverProviderPort supplies the resolvers of the current invocation,
// in the order they must be consulted.
type ResolverProviderPort interface {
	Resolvers(ctx context.Context) ([]ResolverPort, error)
}

type ResolverFactoryPort interface {
	Build(endpoint types.ResolverEndpoint) (ResolverPort, error)
}
