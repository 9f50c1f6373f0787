package adapters

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/types"
)

// DependencyPublisherAdapter publishes to every resolver in order. A
// failing resolver does not stop the remaining ones; all failures are
// reported together.
type DependencyPublisherAdapter struct {
	Recorder ports.PublishRecorderPort
	Now      func() time.Time
}

func NewDependencyPublisherAdapter(recorder ports.PublishRecorderPort) DependencyPublisherAdapter {
	return DependencyPublisherAdapter{Recorder: recorder, Now: time.Now}
}

func (p DependencyPublisherAdapter) Publish(ctx context.Context, configurations []string, resolvers []ports.ResolverPort, descriptor types.ModuleDescriptor, descriptorFile string, engine ports.PublishEnginePort) error {
	if len(resolvers) == 0 {
		return &types.PublishError{Module: descriptor.Module, Cause: types.ErrNoResolvers}
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	var failures []types.ResolverFailure
	for _, resolver := range resolvers {
		started := now()
		err := engine.Publish(ctx, descriptor, configurations, resolver, descriptorFile)
		elapsed := now().Sub(started)
		if p.Recorder != nil {
			p.Recorder.ObservePublish(resolver.Name(), elapsed, err)
		}
		if err != nil {
			log.Ctx(ctx).Debug().
				Err(err).
				Str("resolver", resolver.Name()).
				Str("module", descriptor.Module.String()).
				Msg("publish failed")
			failures = append(failures, types.ResolverFailure{Resolver: resolver.Name(), Err: err})
			continue
		}
		log.Ctx(ctx).Debug().
			Str("resolver", resolver.Name()).
			Str("module", descriptor.Module.String()).
			Dur("duration", elapsed).
			Msg("published")
	}
	if len(failures) > 0 {
		return &types.PublishError{Module: descriptor.Module, Failures: failures}
	}
	return nil
}

var _ ports.PublisherPort = DependencyPublisherAdapter{}
