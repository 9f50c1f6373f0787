package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depman/internal/adapters"
	"depman/internal/ports"
	"depman/internal/types"
)

type stubResolver struct {
	name string
}

func (r stubResolver) Name() string                { return r.name }
func (r stubResolver) Scheme() types.VersionScheme { return types.VersionSchemeSemver }
func (r stubResolver) ListVersions(context.Context, string, string) ([]string, error) {
	return nil, nil
}
func (r stubResolver) Get(context.Context, types.ArtifactRef, string) error { return nil }
func (r stubResolver) Put(context.Context, types.ArtifactRef, string, bool) error {
	return nil
}

type stubProvider struct {
	resolvers []ports.ResolverPort
	err       error
	calls     int
}

func (p *stubProvider) Resolvers(context.Context) ([]ports.ResolverPort, error) {
	p.calls++
	return p.resolvers, p.err
}

type publishCall struct {
	configurations []string
	resolvers      []string
	descriptor     types.ModuleDescriptor
	descriptorFile string
	settings       types.EngineSettings
}

type recordingPublisher struct {
	calls []publishCall
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, configurations []string, resolvers []ports.ResolverPort, descriptor types.ModuleDescriptor, descriptorFile string, engine ports.PublishEnginePort) error {
	names := make([]string, 0, len(resolvers))
	for _, resolver := range resolvers {
		names = append(names, resolver.Name())
	}
	p.calls = append(p.calls, publishCall{
		configurations: configurations,
		resolvers:      names,
		descriptor:     descriptor,
		descriptorFile: descriptorFile,
		settings:       engine.Settings(),
	})
	return p.err
}

type recordingWriter struct {
	paths []string
	err   error
}

func (w *recordingWriter) WriteDescriptor(path string, _ types.ModuleDescriptor) error {
	w.paths = append(w.paths, path)
	return w.err
}

func (w *recordingWriter) RenderDescriptor(types.ModuleDescriptor) ([]byte, error) {
	return nil, w.err
}

type countingConverter struct {
	inner      ports.DescriptorConverterPort
	fileCalls  int
	publishArg []types.Configuration
}

func (c *countingConverter) ConvertForFile(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor {
	c.fileCalls++
	return c.inner.ConvertForFile(ctx, configurations, module, settings)
}

func (c *countingConverter) ConvertForPublish(ctx context.Context, configurations []types.Configuration, module types.ModuleID, settings types.EngineSettings) types.ModuleDescriptor {
	c.publishArg = configurations
	return c.inner.ConvertForPublish(ctx, configurations, module, settings)
}

type stubEngine struct {
	settings types.EngineSettings
	failures map[string]error
}

func (e stubEngine) Settings() types.EngineSettings { return e.settings }

func (e stubEngine) Publish(_ context.Context, _ types.ModuleDescriptor, _ []string, resolver ports.ResolverPort, _ string) error {
	return e.failures[resolver.Name()]
}

type stubEngineFactory struct {
	failures map[string]error
}

func (f stubEngineFactory) CreateEngine(settings types.EngineSettings) ports.PublishEnginePort {
	return stubEngine{settings: settings, failures: f.failures}
}

type stubDependencyResolver struct {
	result types.ResolvedConfiguration
	err    error
	got    ports.ConfigurationPort
}

func (r *stubDependencyResolver) Resolve(_ context.Context, configuration ports.ConfigurationPort) (types.ResolvedConfiguration, error) {
	r.got = configuration
	return r.result, r.err
}

type emptyHierarchyConfiguration struct{}

func (emptyHierarchyConfiguration) Name() string { return "broken" }

func (emptyHierarchyConfiguration) Module() types.ModuleID { return libModule }

func (emptyHierarchyConfiguration) Definition() types.Configuration {
	return types.Configuration{Name: "broken"}
}

func (emptyHierarchyConfiguration) Hierarchy() []ports.ConfigurationPort { return nil }

func (emptyHierarchyConfiguration) All() []ports.ConfigurationPort { return nil }

var libModule = types.ModuleID{Group: "org.example", Name: "lib", Version: "1.0"}

type serviceFixture struct {
	provider  *stubProvider
	converter *countingConverter
	publisher *recordingPublisher
	service   DependencyService
}

func newServiceFixture(writer ports.DescriptorWriterPort, publisher ports.PublisherPort, engines ports.EngineFactoryPort, resolvers ...string) serviceFixture {
	provider := &stubProvider{}
	for _, name := range resolvers {
		provider.resolvers = append(provider.resolvers, stubResolver{name: name})
	}
	converter := &countingConverter{inner: adapters.NewDescriptorConverterAdapter()}
	recorder, _ := publisher.(*recordingPublisher)
	if engines == nil {
		engines = stubEngineFactory{}
	}
	service := NewDependencyService(
		provider,
		adapters.NewSettingsConverterAdapter("", false, nil),
		converter,
		writer,
		engines,
		&stubDependencyResolver{},
		publisher,
	)
	return serviceFixture{provider: provider, converter: converter, publisher: recorder, service: service}
}

func libConfigurations(t *testing.T, extra ...types.Configuration) *ConfigurationContainer {
	t.Helper()
	configurations := []types.Configuration{
		{
			Name:      "default",
			Artifacts: []types.Artifact{{Name: "lib", File: "lib.jar"}},
		},
		{
			Name:    "runtime",
			Extends: []string{"default"},
			Dependencies: []types.DependencyDeclaration{
				{Group: "org.example", Name: "util", Version: "2.0"},
			},
		},
		{
			Name:      "test",
			Extends:   []string{"runtime"},
			Artifacts: []types.Artifact{{Name: "lib", Classifier: "tests", File: "lib-tests.jar"}},
		},
	}
	container, err := NewConfigurationContainer(libModule, append(configurations, extra...))
	require.NoError(t, err)
	return container
}

func TestPublishRuntimeWritesFullDescriptorAndPublishesHierarchy(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "build", "ivy.xml")
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(adapters.NewDescriptorFileAdapter(), publisher, nil, "local", "remote")
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	require.NoError(t, fixture.service.Publish(t.Context(), runtime, destination))

	written, err := adapters.NewDescriptorFileAdapter().ReadDescriptor(destination)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"default", "runtime", "test"}, written.ConfigurationNames()); diff != "" {
		t.Fatalf("descriptor file must carry every configuration (-want +got):\n%s", diff)
	}

	require.Len(t, publisher.calls, 1)
	call := publisher.calls[0]
	if diff := cmp.Diff([]string{"default", "runtime"}, call.configurations); diff != "" {
		t.Fatalf("unexpected configuration names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"local", "remote"}, call.resolvers); diff != "" {
		t.Fatalf("resolver order changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, destination, call.descriptorFile)
	assert.Equal(t, types.EngineModePublish, call.settings.Mode)
	assert.Equal(t, []string{"local", "remote"}, call.settings.ResolverNames)
	assert.Equal(t, []string{"default", "runtime"}, call.descriptor.ConfigurationNames(), spew.Sdump(call.descriptor))
	require.Len(t, call.descriptor.Artifacts, 1)
	assert.Equal(t, "", call.descriptor.Artifacts[0].Classifier)
}

func TestPublishRemoteFailureKeepsDescriptorFile(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "build", "ivy.xml")
	unreachable := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("connection refused")
	fixture := newServiceFixture(
		adapters.NewDescriptorFileAdapter(),
		adapters.NewDependencyPublisherAdapter(nil),
		stubEngineFactory{failures: map[string]error{"remote": unreachable}},
		"local", "remote",
	)
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	err = fixture.service.Publish(t.Context(), runtime, destination)
	require.Error(t, err)
	var publishErr *types.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.Equal(t, []string{"remote"}, publishErr.Resolvers())
	publishedModule := libModule
	publishedModule.Status = types.DefaultModuleStatus
	assert.Equal(t, publishedModule, publishErr.Module)
	assert.ErrorIs(t, err, unreachable)
	assert.FileExists(t, destination)
}

func TestPublishWithoutDestinationWritesNothing(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(writer, publisher, nil, "local")
	container := libConfigurations(t)

	for _, conf := range container.Configurations() {
		require.NoError(t, fixture.service.Publish(t.Context(), conf, ""))
	}
	assert.Empty(t, writer.paths)
	assert.Equal(t, 0, fixture.converter.fileCalls)
	require.Len(t, publisher.calls, 3)
	for _, call := range publisher.calls {
		assert.Equal(t, "", call.descriptorFile)
	}
}

func TestPublishExcludesSyntheticConfigurations(t *testing.T) {
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(&recordingWriter{}, publisher, nil, "local")
	container := libConfigurations(t,
		types.Configuration{Name: "zinc", Synthetic: true},
		types.Configuration{Name: "api", Extends: []string{"runtime", "zinc"}},
	)
	api, err := container.Get("api")
	require.NoError(t, err)

	require.NoError(t, fixture.service.Publish(t.Context(), api, ""))
	require.Len(t, publisher.calls, 1)
	if diff := cmp.Diff([]string{"api", "default", "runtime"}, publisher.calls[0].configurations); diff != "" {
		t.Fatalf("synthetic configuration leaked into names (-want +got):\n%s", diff)
	}
	// The synthetic configuration is still part of the converted hierarchy.
	assert.Len(t, fixture.converter.publishArg, 4)
}

func TestPublishDescriptorFileIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "ivy.xml")
	second := filepath.Join(dir, "b", "ivy.xml")
	fixture := newServiceFixture(adapters.NewDescriptorFileAdapter(), &recordingPublisher{}, nil, "local", "remote")
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	require.NoError(t, fixture.service.Publish(t.Context(), runtime, first))
	require.NoError(t, fixture.service.Publish(t.Context(), runtime, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, 2, fixture.provider.calls, "resolvers are fetched on every publish")
}

func TestPublishWithNoResolversReachesPublisher(t *testing.T) {
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(&recordingWriter{}, publisher, nil)
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	require.NoError(t, fixture.service.Publish(t.Context(), runtime, ""))
	require.Len(t, publisher.calls, 1)
	assert.Empty(t, publisher.calls[0].resolvers)
	assert.Empty(t, publisher.calls[0].settings.ResolverNames)

	withPublisher := newServiceFixture(&recordingWriter{}, adapters.NewDependencyPublisherAdapter(nil), nil)
	err = withPublisher.service.Publish(t.Context(), runtime, "")
	var publishErr *types.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.ErrorIs(t, err, types.ErrNoResolvers)
}

func TestPublishEmptyHierarchyPanicsBeforeWriting(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(writer, publisher, nil, "local")

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		_ = fixture.service.Publish(t.Context(), emptyHierarchyConfiguration{}, filepath.Join(t.TempDir(), "ivy.xml"))
	}()
	violation, ok := recovered.(*types.InvariantViolation)
	require.True(t, ok, "expected invariant violation, got %v", recovered)
	assert.Equal(t, "broken", violation.Subject)
	assert.Empty(t, writer.paths)
	assert.Empty(t, publisher.calls)
}

func TestPublishMalformedDescriptorIsInternal(t *testing.T) {
	writer := &recordingWriter{err: &types.DescriptorWriteError{
		Kind: types.DescriptorFailureMalformed,
		Path: "build/ivy.xml",
		Err:  errors.New("duplicate configuration"),
	}}
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(writer, publisher, nil, "local")
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	err = fixture.service.Publish(t.Context(), runtime, "build/ivy.xml")
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInternal, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected code (-want +got):\n%s", diff)
	}
	var ioErr *types.UncheckedIOError
	assert.False(t, errors.As(err, &ioErr))
	assert.Empty(t, publisher.calls)
}

func TestPublishDescriptorIOFailureIsUnchecked(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))
	destination := filepath.Join(blocker, "ivy.xml")
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(adapters.NewDescriptorFileAdapter(), publisher, nil, "local")
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	err = fixture.service.Publish(t.Context(), runtime, destination)
	var ioErr *types.UncheckedIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, destination, ioErr.Path)
	assert.Empty(t, publisher.calls)
}

func TestPublishProviderErrorPropagates(t *testing.T) {
	publisher := &recordingPublisher{}
	fixture := newServiceFixture(&recordingWriter{}, publisher, nil)
	fixture.provider.err = errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("project file not found")
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	err = fixture.service.Publish(t.Context(), runtime, "")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Empty(t, publisher.calls)
}

func TestResolveIsPassThrough(t *testing.T) {
	want := types.ResolvedConfiguration{
		Configuration: "runtime",
		Artifacts:     []types.ResolvedArtifact{{Path: "/cache/a.jar", Resolver: "local"}},
	}
	failure := errors.New("engine failure")
	resolver := &stubDependencyResolver{result: want, err: failure}
	service := NewDependencyService(&stubProvider{}, adapters.NewSettingsConverterAdapter("", false, nil), adapters.NewDescriptorConverterAdapter(), &recordingWriter{}, stubEngineFactory{}, resolver, &recordingPublisher{})
	runtime, err := libConfigurations(t).Get("runtime")
	require.NoError(t, err)

	got, err := service.Resolve(t.Context(), runtime)
	assert.Same(t, failure, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, runtime, resolver.got)
}
