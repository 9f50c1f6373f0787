package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/core"
	"depman/internal/types"
)

func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	projectPath := strings.TrimSpace(req.ProjectPath)
	if projectPath == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	project, container, err := s.loadProject(projectPath)
	if err != nil {
		return InspectResult{}, err
	}
	settings := s.settings("", false, nil).ConvertForPublish(nil)
	var descriptor types.ModuleDescriptor
	if name := strings.TrimSpace(req.Configuration); name != "" {
		configuration, err := container.Get(name)
		if err != nil {
			return InspectResult{}, err
		}
		descriptor = s.Descriptors.ConvertForPublish(ctx, core.Definitions(configuration.Hierarchy()), project.Module, settings)
	} else {
		descriptor = s.Descriptors.ConvertForFile(ctx, core.Definitions(container.Configurations()), project.Module, settings)
	}
	rendered, err := s.DescriptorWriter.RenderDescriptor(descriptor)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{Descriptor: descriptor, Rendered: rendered}, nil
}
