package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/types"
)

type ResolverFactoryAdapter struct{}

func NewResolverFactoryAdapter() ResolverFactoryAdapter {
	return ResolverFactoryAdapter{}
}

func (a ResolverFactoryAdapter) Build(endpoint types.ResolverEndpoint) (ports.ResolverPort, error) {
	switch endpoint.VersionScheme {
	case "", types.VersionSchemeSemver, types.VersionSchemeDebian, types.VersionSchemePEP440:
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resolver %s: unsupported version scheme %s", endpoint.Name, endpoint.VersionScheme))
	}
	switch endpoint.Kind {
	case types.ResolverKindFile:
		if strings.TrimSpace(endpoint.Root) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("resolver %s: root is required", endpoint.Name))
		}
		return NewFileResolverAdapter(endpoint.Name, endpoint.Root, endpoint.VersionScheme), nil
	case types.ResolverKindHTTP:
		if strings.TrimSpace(endpoint.URL) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("resolver %s: url is required", endpoint.Name))
		}
		return NewHTTPResolverAdapter(endpoint), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("resolver %s: unsupported kind %s", endpoint.Name, endpoint.Kind))
	}
}

// ProjectResolverProvider reads the resolver list from the project file on
// every call, so edits between invocations are picked up.
type ProjectResolverProvider struct {
	ProjectPath string
	Projects    ports.ProjectSourcePort
	Factory     ports.ResolverFactoryPort
}

func NewProjectResolverProvider(projectPath string, projects ports.ProjectSourcePort, factory ports.ResolverFactoryPort) ProjectResolverProvider {
	return ProjectResolverProvider{ProjectPath: projectPath, Projects: projects, Factory: factory}
}

func (p ProjectResolverProvider) Resolvers(ctx context.Context) ([]ports.ResolverPort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	project, err := p.Projects.LoadProject(p.ProjectPath)
	if err != nil {
		return nil, err
	}
	resolvers := make([]ports.ResolverPort, 0, len(project.Resolvers))
	for _, endpoint := range project.Resolvers {
		resolver, err := p.Factory.Build(endpoint)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, resolver)
	}
	log.Ctx(ctx).Debug().
		Str("project", p.ProjectPath).
		Int("resolvers", len(resolvers)).
		Msg("resolvers loaded")
	return resolvers, nil
}

var _ ports.ResolverFactoryPort = ResolverFactoryAdapter{}
var _ ports.ResolverProviderPort = ProjectResolverProvider{}
