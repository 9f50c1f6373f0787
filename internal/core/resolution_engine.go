package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/types"
)

// ResolutionEngine resolves a configuration against the resolvers of the
// current invocation, consulting them in order. The first version selected
// for a module wins; later requests for other versions reuse it.
type ResolutionEngine struct {
	ResolverProvider ports.ResolverProviderPort
	Settings         ports.SettingsConverterPort
	Descriptors      ports.DescriptorReaderPort
	Versions         VersionMatcher
}

type pendingDependency struct {
	declaration types.DependencyDeclaration
	transitive  bool
}

type selectedModule struct {
	module   types.ModuleID
	resolver ports.ResolverPort
}

func NewResolutionEngine(provider ports.ResolverProviderPort, settings ports.SettingsConverterPort, descriptors ports.DescriptorReaderPort) ResolutionEngine {
	return ResolutionEngine{
		ResolverProvider: provider,
		Settings:         settings,
		Descriptors:      descriptors,
		Versions:         NewVersionMatcher(),
	}
}

func (e ResolutionEngine) Resolve(ctx context.Context, configuration ports.ConfigurationPort) (types.ResolvedConfiguration, error) {
	resolvers, err := e.ResolverProvider.Resolvers(ctx)
	if err != nil {
		return types.ResolvedConfiguration{}, err
	}
	settings := e.Settings.ConvertForResolve(resolvers)
	if strings.TrimSpace(settings.CacheDir) == "" {
		return types.ResolvedConfiguration{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution cache directory is required")
	}

	var queue []pendingDependency
	for _, conf := range configuration.Hierarchy() {
		definition := conf.Definition()
		for _, dep := range definition.Dependencies {
			queue = append(queue, pendingDependency{
				declaration: dep,
				transitive:  definition.IsTransitive() && dep.IsTransitive(),
			})
		}
	}
	if len(queue) > 0 && len(resolvers) == 0 {
		return types.ResolvedConfiguration{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(types.ErrNoResolvers.Error())
	}

	result := types.ResolvedConfiguration{Configuration: configuration.Name()}
	selected := map[string]selectedModule{}
	visited := map[string]struct{}{}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return types.ResolvedConfiguration{}, err
		}
		next := queue[0]
		queue = queue[1:]
		dep := next.declaration

		target := strings.TrimSpace(dep.Configuration)
		if target == "" {
			target = settings.DefaultDependencyConfiguration
		}
		if target == "" {
			target = types.DefaultDependencyConfiguration
		}

		chosen, ok := selected[dep.Key()]
		if !ok {
			chosen, err = e.selectModule(ctx, resolvers, settings, dep)
			if err != nil {
				return types.ResolvedConfiguration{}, err
			}
			selected[dep.Key()] = chosen
			result.Modules = append(result.Modules, types.ResolvedModule{
				Module:   chosen.module,
				Resolver: chosen.resolver.Name(),
			})
		} else if dep.Version != "" && dep.Version != chosen.module.Version {
			log.Ctx(ctx).Debug().
				Str("module", dep.Key()).
				Str("requested", dep.Version).
				Str("selected", chosen.module.Version).
				Msg("keeping first selected version")
		}
		visitKey := dep.Key() + "#" + target
		if _, done := visited[visitKey]; done {
			continue
		}
		visited[visitKey] = struct{}{}

		descriptor, err := e.fetchDescriptor(ctx, chosen, settings)
		if err != nil {
			return types.ResolvedConfiguration{}, err
		}
		closure, err := descriptorClosure(descriptor, target)
		if err != nil {
			return types.ResolvedConfiguration{}, err
		}
		artifacts, err := e.fetchArtifacts(ctx, chosen, settings, descriptor, closure)
		if err != nil {
			return types.ResolvedConfiguration{}, err
		}
		result.Artifacts = append(result.Artifacts, artifacts...)

		targetConf, _ := descriptor.Configuration(target)
		if !next.transitive || !targetConf.Transitive {
			continue
		}
		for _, transitive := range descriptor.Dependencies {
			if _, ok := closure[transitive.Configuration]; !ok {
				continue
			}
			isTransitive := transitive.Transitive
			queue = append(queue, pendingDependency{
				declaration: types.DependencyDeclaration{
					Group:         transitive.Group,
					Name:          transitive.Name,
					Version:       transitive.Version,
					Configuration: transitive.Target,
					Transitive:    &isTransitive,
				},
				transitive: isTransitive,
			})
		}
	}
	log.Ctx(ctx).Debug().
		Str("configuration", configuration.Name()).
		Int("modules", len(result.Modules)).
		Int("artifacts", len(result.Artifacts)).
		Msg("resolution completed")
	return result, nil
}

func (e ResolutionEngine) selectModule(ctx context.Context, resolvers []ports.ResolverPort, settings types.EngineSettings, dep types.DependencyDeclaration) (selectedModule, error) {
	for _, resolver := range resolvers {
		versions, err := resolver.ListVersions(ctx, dep.Group, dep.Name)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
				continue
			}
			return selectedModule{}, err
		}
		version, ok, err := e.Versions.Best(settings.VersionScheme(resolver.Name()), dep.Version, versions)
		if err != nil {
			return selectedModule{}, err
		}
		if !ok {
			continue
		}
		log.Ctx(ctx).Debug().
			Str("module", dep.Key()).
			Str("version", version).
			Str("resolver", resolver.Name()).
			Msg("dependency resolved")
		return selectedModule{
			module:   types.ModuleID{Group: dep.Group, Name: dep.Name, Version: version},
			resolver: resolver,
		}, nil
	}
	return selectedModule{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no available versions for %s matching %q", dep.Key(), dep.Version))
}

// fetchDescriptor downloads the module descriptor. Modules published
// without one get a single "default" configuration publishing one jar.
func (e ResolutionEngine) fetchDescriptor(ctx context.Context, chosen selectedModule, settings types.EngineSettings) (types.ModuleDescriptor, error) {
	ref := types.DescriptorRef(chosen.module)
	dest := cachePath(settings.CacheDir, ref)
	if err := chosen.resolver.Get(ctx, ref, dest); err != nil {
		if errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
			return types.ModuleDescriptor{}, err
		}
		return defaultDescriptor(chosen.module), nil
	}
	return e.Descriptors.ReadDescriptor(dest)
}

func (e ResolutionEngine) fetchArtifacts(ctx context.Context, chosen selectedModule, settings types.EngineSettings, descriptor types.ModuleDescriptor, closure map[string]struct{}) ([]types.ResolvedArtifact, error) {
	var out []types.ResolvedArtifact
	for _, artifact := range descriptor.Artifacts {
		if !intersects(artifact.Configurations, closure) {
			continue
		}
		ref := types.ArtifactRef{
			Group:      chosen.module.Group,
			Module:     chosen.module.Name,
			Version:    chosen.module.Version,
			Name:       artifact.Name,
			Type:       artifact.Type,
			Extension:  artifact.Extension,
			Classifier: artifact.Classifier,
		}
		dest := cachePath(settings.CacheDir, ref)
		if _, err := os.Stat(dest); err != nil {
			if err := chosen.resolver.Get(ctx, ref, dest); err != nil {
				return nil, err
			}
		}
		out = append(out, types.ResolvedArtifact{
			Ref:      ref,
			Path:     dest,
			Resolver: chosen.resolver.Name(),
		})
	}
	return out, nil
}

func descriptorClosure(descriptor types.ModuleDescriptor, name string) (map[string]struct{}, error) {
	if _, ok := descriptor.Configuration(name); !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("configuration %s not found in %s", name, descriptor.Module))
	}
	closure := map[string]struct{}{}
	var walk func(string)
	walk = func(current string) {
		if _, ok := closure[current]; ok {
			return
		}
		closure[current] = struct{}{}
		conf, ok := descriptor.Configuration(current)
		if !ok {
			return
		}
		for _, parent := range conf.Extends {
			walk(parent)
		}
	}
	walk(name)
	return closure, nil
}

func defaultDescriptor(module types.ModuleID) types.ModuleDescriptor {
	return types.ModuleDescriptor{
		Module: module,
		Configurations: []types.DescriptorConfiguration{
			{Name: types.DefaultDependencyConfiguration, Transitive: true},
		},
		Artifacts: []types.DescriptorArtifact{
			{
				Name:           module.Name,
				Type:           "jar",
				Extension:      "jar",
				Configurations: []string{types.DefaultDependencyConfiguration},
			},
		},
	}
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, value := range values {
		if _, ok := set[value]; ok {
			return true
		}
	}
	return false
}

func cachePath(root string, ref types.ArtifactRef) string {
	return filepath.Join(root, filepath.FromSlash(ref.Path()))
}

var _ ports.DependencyResolverPort = ResolutionEngine{}
