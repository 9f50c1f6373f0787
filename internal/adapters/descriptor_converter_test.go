package adapters

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depman/internal/types"
)

var converterModule = types.ModuleID{Group: "org.example", Name: "lib", Version: "1.0"}

func converterConfigurations() []types.Configuration {
	no := false
	return []types.Configuration{
		{
			Name:    "runtime",
			Extends: []string{"default", "compile"},
			Dependencies: []types.DependencyDeclaration{
				{Group: "org.example", Name: "util", Version: "2.0", Transitive: &no},
			},
		},
		{
			Name: "default",
			Artifacts: []types.Artifact{
				{Name: "lib", File: "/build/lib.jar"},
			},
			Dependencies: []types.DependencyDeclaration{
				{Group: "org.example", Name: "core", Version: "1.+", Configuration: "api"},
			},
		},
		{
			Name:      "compile",
			Synthetic: true,
			Artifacts: []types.Artifact{
				{Name: "lib", File: "/build/lib.jar"},
				{Name: "lib", Type: "source", Extension: "jar", Classifier: "sources", File: "/build/lib-sources.jar"},
			},
		},
	}
}

func TestConvertForFileIsSortedAndComplete(t *testing.T) {
	converter := NewDescriptorConverterAdapter()
	settings := NewSettingsConverterAdapter("", false, nil).ConvertForPublish(nil)

	descriptor := converter.ConvertForFile(t.Context(), converterConfigurations(), converterModule, settings)

	assert.Equal(t, types.DefaultModuleStatus, descriptor.Module.Status)
	assert.Equal(t, []string{"compile", "default", "runtime"}, descriptor.ConfigurationNames())
	compile, ok := descriptor.Configuration("compile")
	require.True(t, ok)
	assert.True(t, compile.Private, "synthetic configurations are private")
	runtime, _ := descriptor.Configuration("runtime")
	assert.Equal(t, []string{"compile", "default"}, runtime.Extends)

	wantArtifacts := []types.DescriptorArtifact{
		{Name: "lib", Type: "jar", Extension: "jar", Configurations: []string{"compile", "default"}, File: "/build/lib.jar"},
		{Name: "lib", Type: "source", Extension: "jar", Classifier: "sources", Configurations: []string{"compile"}, File: "/build/lib-sources.jar"},
	}
	if diff := cmp.Diff(wantArtifacts, descriptor.Artifacts); diff != "" {
		t.Fatalf("unexpected artifacts (-want +got):\n%s", diff)
	}
	wantDeps := []types.DescriptorDependency{
		{Group: "org.example", Name: "core", Version: "1.+", Configuration: "default", Target: "api", Transitive: true},
		{Group: "org.example", Name: "util", Version: "2.0", Configuration: "runtime", Target: "default", Transitive: false},
	}
	if diff := cmp.Diff(wantDeps, descriptor.Dependencies); diff != "" {
		t.Fatalf("unexpected dependencies (-want +got):\n%s", diff)
	}
}

func TestConvertForPublishPrunesOutsideReferences(t *testing.T) {
	converter := NewDescriptorConverterAdapter()
	settings := NewSettingsConverterAdapter("", false, nil).ConvertForPublish(nil)
	all := converterConfigurations()

	descriptor := converter.ConvertForPublish(t.Context(), all[:2], converterModule, settings)

	assert.Equal(t, []string{"default", "runtime"}, descriptor.ConfigurationNames())
	runtime, _ := descriptor.Configuration("runtime")
	assert.Equal(t, []string{"default"}, runtime.Extends)
	require.Len(t, descriptor.Artifacts, 1)
	assert.Equal(t, []string{"default"}, descriptor.Artifacts[0].Configurations)
}

func TestConvertIsDeterministic(t *testing.T) {
	converter := NewDescriptorConverterAdapter()
	settings := NewSettingsConverterAdapter("", false, nil).ConvertForPublish(nil)
	configurations := converterConfigurations()
	reversed := make([]types.Configuration, len(configurations))
	for i, conf := range configurations {
		reversed[len(configurations)-1-i] = conf
	}

	first := converter.ConvertForFile(t.Context(), configurations, converterModule, settings)
	second := converter.ConvertForFile(t.Context(), reversed, converterModule, settings)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("input order leaked into descriptor (-first +second):\n%s", diff)
	}

	files := NewDescriptorFileAdapter()
	a, err := files.RenderDescriptor(first)
	require.NoError(t, err)
	b, err := files.RenderDescriptor(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
