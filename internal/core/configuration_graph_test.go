package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depman/internal/ports"
	"depman/internal/types"
)

func names(configurations []ports.ConfigurationPort) []string {
	out := make([]string, 0, len(configurations))
	for _, conf := range configurations {
		out = append(out, conf.Name())
	}
	return out
}

func TestHierarchyStartsWithSelfAndFollowsParents(t *testing.T) {
	container, err := NewConfigurationContainer(libModule, []types.Configuration{
		{Name: "default"},
		{Name: "compile"},
		{Name: "runtime", Extends: []string{"compile", "default"}},
		{Name: "test", Extends: []string{"runtime", "compile"}},
	})
	require.NoError(t, err)

	test, err := container.Get("test")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"test", "runtime", "compile", "default"}, names(test.Hierarchy())); diff != "" {
		t.Fatalf("unexpected hierarchy (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"default", "compile", "runtime", "test"}, names(test.All())); diff != "" {
		t.Fatalf("unexpected all (-want +got):\n%s", diff)
	}
	assert.Equal(t, libModule, test.Module())

	leaf, err := container.Get("default")
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, names(leaf.Hierarchy()))
}

func TestConfigurationContainerRejectsInvalidGraphs(t *testing.T) {
	tests := []struct {
		name           string
		configurations []types.Configuration
		code           errbuilder.ErrCode
		message        string
	}{
		{
			name:           "empty name",
			configurations: []types.Configuration{{Name: " "}},
			code:           errbuilder.CodeInvalidArgument,
			message:        "configuration name must not be empty",
		},
		{
			name:           "duplicate",
			configurations: []types.Configuration{{Name: "default"}, {Name: "default"}},
			code:           errbuilder.CodeAlreadyExists,
			message:        "duplicate configuration default",
		},
		{
			name:           "unknown parent",
			configurations: []types.Configuration{{Name: "runtime", Extends: []string{"compile"}}},
			code:           errbuilder.CodeInvalidArgument,
			message:        "configuration runtime extends unknown configuration compile",
		},
		{
			name: "cycle",
			configurations: []types.Configuration{
				{Name: "a", Extends: []string{"b"}},
				{Name: "b", Extends: []string{"a"}},
			},
			code:    errbuilder.CodeInvalidArgument,
			message: "configuration cycle: a -> b -> a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigurationContainer(libModule, tt.configurations)
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
			var builder *errbuilder.ErrBuilder
			require.ErrorAs(t, err, &builder)
			assert.Equal(t, tt.message, builder.Msg)
		})
	}
}

func TestConfigurationContainerGetUnknown(t *testing.T) {
	container, err := NewConfigurationContainer(libModule, []types.Configuration{{Name: "default"}})
	require.NoError(t, err)
	_, err = container.Get("runtime")
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestConfigurationNames(t *testing.T) {
	configurations := []types.Configuration{
		{Name: "runtime"},
		{Name: "zinc", Synthetic: true},
		{Name: "default"},
		{Name: "runtime"},
	}
	assert.Equal(t, []string{"default", "runtime"}, ConfigurationNames(configurations, false))
	assert.Equal(t, []string{"default", "runtime", "zinc"}, ConfigurationNames(configurations, true))
	assert.Empty(t, ConfigurationNames(nil, false))
}
