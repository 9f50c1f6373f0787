package ports

import (
	"context"

	"depman/internal/types"
)

type DependencyResolverPort interface {
	Resolve(ctx context.Context, configuration ConfigurationPort) (types.ResolvedConfiguration, error)
}
