package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	projectPath := strings.TrimSpace(req.ProjectPath)
	if projectPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	project, container, err := s.loadProject(projectPath)
	if err != nil {
		return ValidateResult{}, err
	}
	for _, endpoint := range project.Resolvers {
		if _, err := s.ResolverFactory.Build(endpoint); err != nil {
			return ValidateResult{}, err
		}
	}
	// Render the full descriptor so malformed artifact or dependency
	// declarations surface before a publish.
	settings := s.settings("", false, nil).ConvertForPublish(nil)
	descriptor := s.Descriptors.ConvertForFile(ctx, core.Definitions(container.Configurations()), project.Module, settings)
	if _, err := s.DescriptorWriter.RenderDescriptor(descriptor); err != nil {
		return ValidateResult{}, err
	}
	log.Ctx(ctx).Debug().
		Str("module", project.Module.String()).
		Msg("project valid")
	return ValidateResult{
		Module:         project.Module,
		Configurations: core.ConfigurationNames(core.Definitions(container.Configurations()), true),
		Resolvers:      resolverNames(project),
	}, nil
}
