package ports

import (
	"context"
	"time"

	"depman/internal/types"
)

// PublisherPort pushes a descriptor and its artifacts to every resolver.
// Failures are reported as *types.PublishError.
type PublisherPort interface {
	Publish(ctx context.Context, configurations []string, resolvers []ResolverPort, descriptor types.ModuleDescriptor, descriptorFile string, engine PublishEnginePort) error
}

type PublishRecorderPort interface {
	ObservePublish(resolver string, duration time.Duration, err error)
}
