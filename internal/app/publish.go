package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/adapters"
	"depman/internal/core"
	"depman/internal/metrics"
	"depman/internal/types"
)

func (s Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	projectPath := strings.TrimSpace(req.ProjectPath)
	if projectPath == "" {
		return PublishResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	checksums, err := adapters.ParseChecksums(req.Checksums)
	if err != nil {
		return PublishResult{}, err
	}
	project, container, err := s.loadProject(projectPath)
	if err != nil {
		return PublishResult{}, err
	}
	configuration, err := container.Get(configurationName(req.Configuration))
	if err != nil {
		return PublishResult{}, err
	}

	recorder := metrics.NewPublishMetrics()
	provider := &observedResolvers{provider: s.resolverProvider(projectPath)}
	settings := s.settings("", req.Overwrite, checksums)
	service := core.NewDependencyService(
		provider,
		settings,
		s.Descriptors,
		s.DescriptorWriter,
		s.Engines,
		core.NewResolutionEngine(provider, settings, s.DescriptorReader),
		adapters.NewDependencyPublisherAdapter(recorder),
	)
	descriptorPath := strings.TrimSpace(req.DescriptorPath)
	publishErr := service.Publish(ctx, configuration, descriptorPath)

	if metricsFile := strings.TrimSpace(req.MetricsFile); metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			if publishErr != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("metrics textfile not written")
			} else {
				return PublishResult{}, err
			}
		}
	}
	if publishErr != nil {
		return PublishResult{}, publishErr
	}
	return PublishResult{
		Module:         project.Module,
		Configurations: core.ConfigurationNames(core.Definitions(configuration.Hierarchy()), false),
		Resolvers:      provider.names,
		DescriptorPath: descriptorPath,
	}, nil
}

func (s Service) settings(cacheDir string, overwrite bool, checksums []types.ChecksumAlgorithm) adapters.SettingsConverterAdapter {
	return adapters.NewSettingsConverterAdapter(cacheDir, overwrite, checksums)
}
