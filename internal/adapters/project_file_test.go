package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depman/internal/types"
)

const yamlProject = `module:
  group: org.example
  name: lib
  version: "1.0"
configurations:
  - name: default
    artifacts:
      - name: lib
        file: build/lib.jar
  - name: runtime
    extends: [default]
    transitive: false
    dependencies:
      - group: org.example
        name: util
        version: "2.+"
        configuration: api
resolvers:
  - name: local
    root: repo
  - name: remote
    url: https://repo.example.com/releases
    username: deploy
    version_scheme: pep440
    retries: 5
`

const tomlProject = `[module]
group = "org.example"
name = "lib"
version = "1.0"
status = "release"

[[configurations]]
name = "default"

[[configurations.artifacts]]
name = "lib"
file = "/abs/lib.jar"

[[configurations]]
name = "runtime"
extends = ["default"]

[[configurations.dependencies]]
group = "org.example"
name = "util"
version = "2.0"

[[resolvers]]
name = "local"
kind = "file"
root = "/srv/repo"
`

func writeProjectFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProjectYAML(t *testing.T) {
	path := writeProjectFile(t, "depman.project.yaml", yamlProject)
	project, err := NewProjectFileAdapter().LoadProject(path)
	require.NoError(t, err)
	dir := filepath.Dir(path)

	assert.Equal(t, types.ModuleID{Group: "org.example", Name: "lib", Version: "1.0", Status: types.DefaultModuleStatus}, project.Module)
	require.Len(t, project.Configurations, 2)
	assert.Equal(t, filepath.Join(dir, "build", "lib.jar"), project.Configurations[0].Artifacts[0].File)
	runtime := project.Configurations[1]
	assert.Equal(t, []string{"default"}, runtime.Extends)
	assert.False(t, runtime.IsTransitive())
	assert.Equal(t, "api", runtime.Dependencies[0].Configuration)
	assert.True(t, runtime.Dependencies[0].IsTransitive())

	require.Len(t, project.Resolvers, 2)
	assert.Equal(t, types.ResolverKindFile, project.Resolvers[0].Kind)
	assert.Equal(t, filepath.Join(dir, "repo"), project.Resolvers[0].Root)
	assert.Equal(t, types.ResolverKindHTTP, project.Resolvers[1].Kind)
	assert.Equal(t, types.VersionSchemePEP440, project.Resolvers[1].VersionScheme)
	assert.Equal(t, 5, project.Resolvers[1].Retries)
}

func TestLoadProjectTOML(t *testing.T) {
	path := writeProjectFile(t, "depman.project.toml", tomlProject)
	project, err := NewProjectFileAdapter().LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "release", project.Module.Status)
	require.Len(t, project.Configurations, 2)
	assert.Equal(t, "/abs/lib.jar", project.Configurations[0].Artifacts[0].File)
	assert.Equal(t, "util", project.Configurations[1].Dependencies[0].Name)
	require.Len(t, project.Resolvers, 1)
	assert.Equal(t, "/srv/repo", project.Resolvers[0].Root)
}

func TestLoadProjectErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errbuilder.ErrCode
	}{
		{"bad yaml", "p.yaml", "module: [", errbuilder.CodeInvalidArgument},
		{"bad toml", "p.toml", "module = ", errbuilder.CodeInvalidArgument},
		{"missing version", "p.yaml", "module: {group: g, name: n}\n", errbuilder.CodeInvalidArgument},
		{"unnamed resolver", "p.yaml", "module: {group: g, name: n, version: '1'}\nresolvers:\n  - root: r\n", errbuilder.CodeInvalidArgument},
		{"duplicate resolver", "p.yaml", "module: {group: g, name: n, version: '1'}\nresolvers:\n  - name: a\n  - name: a\n", errbuilder.CodeAlreadyExists},
		{"unnamed artifact", "p.yaml", "module: {group: g, name: n, version: '1'}\nconfigurations:\n  - name: default\n    artifacts:\n      - file: x.jar\n", errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProjectFileAdapter().LoadProject(writeProjectFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}

	_, err := NewProjectFileAdapter().LoadProject(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
