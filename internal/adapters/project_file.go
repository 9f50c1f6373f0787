package adapters

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depman/internal/ports"
	"depman/internal/types"
)

// ProjectFileAdapter loads project files. Files ending in .toml are decoded
// as TOML, everything else as YAML. Relative artifact files and file
// resolver roots are resolved against the project file's directory.
type ProjectFileAdapter struct{}

func NewProjectFileAdapter() ProjectFileAdapter {
	return ProjectFileAdapter{}
}

func (a ProjectFileAdapter) LoadProject(path string) (types.Project, error) {
	if strings.TrimSpace(path) == "" {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project file not found").
			WithCause(err)
	}
	var project types.Project
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&project); err != nil {
			return types.Project{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse project toml").
				WithCause(err)
		}
	} else if err := yaml.Unmarshal(data, &project); err != nil {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project yaml").
			WithCause(err)
	}
	if err := normalizeProject(&project, filepath.Dir(path)); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

func normalizeProject(project *types.Project, baseDir string) error {
	module := &project.Module
	module.Group = strings.TrimSpace(module.Group)
	module.Name = strings.TrimSpace(module.Name)
	module.Version = strings.TrimSpace(module.Version)
	if module.Group == "" || module.Name == "" || module.Version == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("module group, name and version are required")
	}
	if strings.TrimSpace(module.Status) == "" {
		module.Status = types.DefaultModuleStatus
	}
	for i := range project.Configurations {
		conf := &project.Configurations[i]
		for j := range conf.Artifacts {
			artifact := &conf.Artifacts[j]
			if strings.TrimSpace(artifact.Name) == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("configuration %s has an artifact without name", conf.Name))
			}
			artifact.File = resolveRelative(baseDir, artifact.File)
		}
		for _, dep := range conf.Dependencies {
			if strings.TrimSpace(dep.Group) == "" || strings.TrimSpace(dep.Name) == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("configuration %s has a dependency without group or name", conf.Name))
			}
		}
	}
	seen := map[string]struct{}{}
	for i := range project.Resolvers {
		endpoint := &project.Resolvers[i]
		endpoint.Name = strings.TrimSpace(endpoint.Name)
		if endpoint.Name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("resolver name is required")
		}
		if _, ok := seen[endpoint.Name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate resolver %s", endpoint.Name))
		}
		seen[endpoint.Name] = struct{}{}
		if endpoint.Kind == "" {
			endpoint.Kind = types.ResolverKindFile
			if strings.TrimSpace(endpoint.URL) != "" {
				endpoint.Kind = types.ResolverKindHTTP
			}
		}
		if endpoint.Kind == types.ResolverKindFile {
			endpoint.Root = resolveRelative(baseDir, endpoint.Root)
		}
	}
	return nil
}

func resolveRelative(baseDir string, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(baseDir, trimmed)
}

var _ ports.ProjectSourcePort = ProjectFileAdapter{}
