package core

import (
	"context"
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/types"
)

// DependencyService resolves configurations and publishes modules. It holds
// no mutable state; thread safety is that of the injected ports.
type DependencyService struct {
	ResolverProvider ports.ResolverProviderPort
	Settings         ports.SettingsConverterPort
	Descriptors      ports.DescriptorConverterPort
	DescriptorWriter ports.DescriptorWriterPort
	Engines          ports.EngineFactoryPort
	Resolver         ports.DependencyResolverPort
	Publisher        ports.PublisherPort
}

func NewDependencyService(
	resolverProvider ports.ResolverProviderPort,
	settings ports.SettingsConverterPort,
	descriptors ports.DescriptorConverterPort,
	descriptorWriter ports.DescriptorWriterPort,
	engines ports.EngineFactoryPort,
	resolver ports.DependencyResolverPort,
	publisher ports.PublisherPort,
) DependencyService {
	return DependencyService{
		ResolverProvider: resolverProvider,
		Settings:         settings,
		Descriptors:      descriptors,
		DescriptorWriter: descriptorWriter,
		Engines:          engines,
		Resolver:         resolver,
		Publisher:        publisher,
	}
}

func (s DependencyService) Resolve(ctx context.Context, configuration ports.ConfigurationPort) (types.ResolvedConfiguration, error) {
	return s.Resolver.Resolve(ctx, configuration)
}

// Publish pushes the hierarchy of configuration to every resolver. When
// descriptorDestination is not empty the full module descriptor is written
// there first; the file is left in place if publishing fails.
func (s DependencyService) Publish(ctx context.Context, configuration ports.ConfigurationPort, descriptorDestination string) error {
	resolvers, err := s.ResolverProvider.Resolvers(ctx)
	if err != nil {
		return err
	}
	settings := s.Settings.ConvertForPublish(resolvers)
	toPublish := configuration.Hierarchy()
	if len(toPublish) == 0 {
		panic(&types.InvariantViolation{
			Invariant: "configuration hierarchy must contain the configuration itself",
			Subject:   configuration.Name(),
		})
	}
	module := configuration.Module()
	published := Definitions(toPublish)
	names := ConfigurationNames(published, false)
	log.Ctx(ctx).Debug().
		Str("module", module.String()).
		Strs("configurations", names).
		Int("resolvers", len(resolvers)).
		Msg("publish started")

	if err := s.writeDescriptorFile(ctx, descriptorDestination, toPublish, settings, module); err != nil {
		return err
	}
	descriptor := s.Descriptors.ConvertForPublish(ctx, published, module, settings)
	return s.Publisher.Publish(ctx, names, resolvers, descriptor, descriptorDestination, s.Engines.CreateEngine(settings))
}

func (s DependencyService) writeDescriptorFile(ctx context.Context, destination string, toPublish []ports.ConfigurationPort, settings types.EngineSettings, module types.ModuleID) error {
	if destination == "" {
		return nil
	}
	all := Definitions(toPublish[0].All())
	descriptor := s.Descriptors.ConvertForFile(ctx, all, module, settings)
	err := s.DescriptorWriter.WriteDescriptor(destination, descriptor)
	if err == nil {
		log.Ctx(ctx).Debug().Str("path", destination).Msg("descriptor written")
		return nil
	}
	var writeErr *types.DescriptorWriteError
	if errors.As(err, &writeErr) && writeErr.Kind == types.DescriptorFailureIO {
		return &types.UncheckedIOError{Path: destination, Err: writeErr.Err}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to serialize module descriptor").
		WithCause(err)
}
