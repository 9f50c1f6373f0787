package ports

import (
	"context"

	"depman/internal/types"
)

// PublishEnginePort transfers one module to one resolver.
type PublishEnginePort interface {
	Settings() types.EngineSettings
	Publish(ctx context.Context, descriptor types.ModuleDescriptor, configurations []string, resolver ResolverPort, descriptorFile string) error
}

type EngineFactoryPort interface {
	CreateEngine(settings types.EngineSettings) PublishEnginePort
}
