package adapters

import (
	"context"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"depman/internal/ports"
	"depman/internal/types"
)

const defaultArtifactType = "jar"

// DescriptorConverterAdapter builds module descriptors. Output is sorted so
// identical inputs always serialize to identical bytes.
type DescriptorConverterAdapter struct{}

func NewDescriptorConverterAdapter() DescriptorConverterAdapter {
	return DescriptorConverterAdapter{}
}

func (a DescriptorConverterAdapter) ConvertForFile(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor {
	return buildDescriptor(ctx, configurations, module, settings)
}

// ConvertForPublish also drops extends references to configurations that
// are not part of the publication.
func (a DescriptorConverterAdapter) ConvertForPublish(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor {
	descriptor := buildDescriptor(ctx, configurations, module, settings)
	present := map[string]struct{}{}
	for _, conf := range descriptor.Configurations {
		present[conf.Name] = struct{}{}
	}
	for i, conf := range descriptor.Configurations {
		var kept []string
		for _, parent := range conf.Extends {
			if _, ok := present[parent]; ok {
				kept = append(kept, parent)
			}
		}
		descriptor.Configurations[i].Extends = kept
	}
	return descriptor
}

func buildDescriptor(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor {
	assert.NotEmpty(ctx, module.Group, "module group must be set")
	assert.NotEmpty(ctx, module.Name, "module name must be set")
	assert.NotEmpty(ctx, module.Version, "module version must be set")
	if strings.TrimSpace(module.Status) == "" {
		module.Status = types.DefaultModuleStatus
	}

	ordered := append([]types.Configuration(nil), configurations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	descriptor := types.ModuleDescriptor{Module: module}
	artifacts := map[string]*types.DescriptorArtifact{}
	dependencies := map[types.DescriptorDependency]struct{}{}
	defaultTarget := settings.DefaultDependencyConfiguration
	if defaultTarget == "" {
		defaultTarget = types.DefaultDependencyConfiguration
	}

	for _, conf := range ordered {
		extends := append([]string(nil), conf.Extends...)
		sort.Strings(extends)
		descriptor.Configurations = append(descriptor.Configurations, types.DescriptorConfiguration{
			Name:        conf.Name,
			Description: conf.Description,
			Extends:     extends,
			Private:     conf.Private || conf.Synthetic,
			Transitive:  conf.IsTransitive(),
		})
		for _, artifact := range conf.Artifacts {
			normalized := normalizeArtifact(artifact)
			key := strings.Join([]string{normalized.Name, normalized.Type, normalized.Extension, normalized.Classifier, normalized.File}, "|")
			existing, ok := artifacts[key]
			if !ok {
				existing = &normalized
				artifacts[key] = existing
			}
			existing.Configurations = appendUnique(existing.Configurations, conf.Name)
		}
		for _, dep := range conf.Dependencies {
			target := strings.TrimSpace(dep.Configuration)
			if target == "" {
				target = defaultTarget
			}
			dependencies[types.DescriptorDependency{
				Group:         dep.Group,
				Name:          dep.Name,
				Version:       dep.Version,
				Configuration: conf.Name,
				Target:        target,
				Transitive:    dep.IsTransitive(),
			}] = struct{}{}
		}
	}

	for _, artifact := range artifacts {
		sort.Strings(artifact.Configurations)
		descriptor.Artifacts = append(descriptor.Artifacts, *artifact)
	}
	sort.Slice(descriptor.Artifacts, func(i, j int) bool {
		return artifactSortKey(descriptor.Artifacts[i]) < artifactSortKey(descriptor.Artifacts[j])
	})

	for dep := range dependencies {
		descriptor.Dependencies = append(descriptor.Dependencies, dep)
	}
	sort.Slice(descriptor.Dependencies, func(i, j int) bool {
		return dependencySortKey(descriptor.Dependencies[i]) < dependencySortKey(descriptor.Dependencies[j])
	})
	return descriptor
}

func normalizeArtifact(artifact types.Artifact) types.DescriptorArtifact {
	artifactType := strings.TrimSpace(artifact.Type)
	extension := strings.TrimSpace(artifact.Extension)
	switch {
	case artifactType == "" && extension == "":
		artifactType = defaultArtifactType
		extension = defaultArtifactType
	case artifactType == "":
		artifactType = extension
	case extension == "":
		extension = artifactType
	}
	return types.DescriptorArtifact{
		Name:       strings.TrimSpace(artifact.Name),
		Type:       artifactType,
		Extension:  extension,
		Classifier: strings.TrimSpace(artifact.Classifier),
		File:       artifact.File,
	}
}

func artifactSortKey(artifact types.DescriptorArtifact) string {
	return strings.Join([]string{artifact.Name, artifact.Type, artifact.Extension, artifact.Classifier, artifact.File}, "\x00")
}

func dependencySortKey(dep types.DescriptorDependency) string {
	transitive := "1"
	if !dep.Transitive {
		transitive = "0"
	}
	return strings.Join([]string{dep.Group, dep.Name, dep.Configuration, dep.Target, dep.Version, transitive}, "\x00")
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

var _ ports.DescriptorConverterPort = DescriptorConverterAdapter{}
