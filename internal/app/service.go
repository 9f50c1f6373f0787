package app

import (
	"context"
	"strings"

	"depman/internal/adapters"
	"depman/internal/core"
	"depman/internal/ports"
	"depman/internal/types"
)

const DefaultConfiguration = "default"

type Service struct {
	Projects         ports.ProjectSourcePort
	ResolverFactory  ports.ResolverFactoryPort
	Descriptors      ports.DescriptorConverterPort
	DescriptorWriter ports.DescriptorWriterPort
	DescriptorReader ports.DescriptorReaderPort
	Engines          ports.EngineFactoryPort
}

func NewService() Service {
	descriptorFiles := adapters.NewDescriptorFileAdapter()
	return Service{
		Projects:         adapters.NewProjectFileAdapter(),
		ResolverFactory:  adapters.NewResolverFactoryAdapter(),
		Descriptors:      adapters.NewDescriptorConverterAdapter(),
		DescriptorWriter: descriptorFiles,
		DescriptorReader: descriptorFiles,
		Engines:          adapters.NewEngineFactoryAdapter(),
	}
}

func (s Service) resolverProvider(projectPath string) ports.ResolverProviderPort {
	return adapters.NewProjectResolverProvider(projectPath, s.Projects, s.ResolverFactory)
}

// observedResolvers remembers the resolver names of the last Resolvers call
// so results report the list an operation actually used.
type observedResolvers struct {
	provider ports.ResolverProviderPort
	names    []string
}

func (o *observedResolvers) Resolvers(ctx context.Context) ([]ports.ResolverPort, error) {
	resolvers, err := o.provider.Resolvers(ctx)
	if err != nil {
		return nil, err
	}
	o.names = make([]string, 0, len(resolvers))
	for _, resolver := range resolvers {
		o.names = append(o.names, resolver.Name())
	}
	return resolvers, nil
}

func (s Service) loadProject(projectPath string) (types.Project, *core.ConfigurationContainer, error) {
	project, err := s.Projects.LoadProject(projectPath)
	if err != nil {
		return types.Project{}, nil, err
	}
	container, err := core.NewProjectConfigurations(project)
	if err != nil {
		return types.Project{}, nil, err
	}
	return project, container, nil
}

func configurationName(value string) string {
	name := strings.TrimSpace(value)
	if name == "" {
		return DefaultConfiguration
	}
	return name
}

func resolverNames(project types.Project) []string {
	names := make([]string, 0, len(project.Resolvers))
	for _, endpoint := range project.Resolvers {
		names = append(names, endpoint.Name)
	}
	return names
}
