package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/adapters"
	"depman/internal/core"
)

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	projectPath := strings.TrimSpace(req.ProjectPath)
	if projectPath == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	cacheDir := strings.TrimSpace(req.CacheDir)
	if cacheDir == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory is required")
	}
	project, container, err := s.loadProject(projectPath)
	if err != nil {
		return ResolveResult{}, err
	}
	configuration, err := container.Get(configurationName(req.Configuration))
	if err != nil {
		return ResolveResult{}, err
	}
	provider := s.resolverProvider(projectPath)
	settings := s.settings(cacheDir, false, nil)
	engine := core.NewResolutionEngine(provider, settings, s.DescriptorReader)
	service := core.NewDependencyService(provider, settings, s.Descriptors, s.DescriptorWriter, s.Engines, engine, adapters.NewDependencyPublisherAdapter(nil))
	resolved, err := service.Resolve(ctx, configuration)
	if err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{Module: project.Module, Resolved: resolved}, nil
}
