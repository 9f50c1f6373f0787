package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/ports"
	"depman/internal/types"
)

// ConfigurationContainer owns the configuration graph of one project. It is
// immutable once built and safe for concurrent reads.
type ConfigurationContainer struct {
	module types.ModuleID
	order  []*boundConfiguration
	byName map[string]*boundConfiguration
}

type boundConfiguration struct {
	container  *ConfigurationContainer
	definition types.Configuration
}

func NewConfigurationContainer(module types.ModuleID, configurations []types.Configuration) (*ConfigurationContainer, error) {
	container := &ConfigurationContainer{
		module: module,
		byName: map[string]*boundConfiguration{},
	}
	for _, conf := range configurations {
		name := strings.TrimSpace(conf.Name)
		if name == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("configuration name must not be empty")
		}
		if _, exists := container.byName[name]; exists {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate configuration %s", name))
		}
		conf.Name = name
		bound := &boundConfiguration{container: container, definition: conf}
		container.order = append(container.order, bound)
		container.byName[name] = bound
	}
	for _, bound := range container.order {
		for _, parent := range bound.definition.Extends {
			if _, ok := container.byName[parent]; !ok {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("configuration %s extends unknown configuration %s", bound.definition.Name, parent))
			}
		}
	}
	if err := container.checkCycles(); err != nil {
		return nil, err
	}
	return container, nil
}

// NewProjectConfigurations builds the container of a loaded project.
func NewProjectConfigurations(project types.Project) (*ConfigurationContainer, error) {
	return NewConfigurationContainer(project.Module, project.Configurations)
}

func (c *ConfigurationContainer) Module() types.ModuleID {
	return c.module
}

func (c *ConfigurationContainer) Get(name string) (ports.ConfigurationPort, error) {
	bound, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("configuration %s not found", name))
	}
	return bound, nil
}

func (c *ConfigurationContainer) Configurations() []ports.ConfigurationPort {
	out := make([]ports.ConfigurationPort, 0, len(c.order))
	for _, bound := range c.order {
		out = append(out, bound)
	}
	return out
}

func (c *ConfigurationContainer) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("configuration cycle: %s", strings.Join(append(path, name), " -> ")))
		case done:
			return nil
		}
		state[name] = visiting
		for _, parent := range c.byName[name].definition.Extends {
			if err := visit(parent, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, bound := range c.order {
		if err := visit(bound.definition.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

func (b *boundConfiguration) Name() string {
	return b.definition.Name
}

func (b *boundConfiguration) Module() types.ModuleID {
	return b.container.module
}

func (b *boundConfiguration) Definition() types.Configuration {
	return b.definition
}

func (b *boundConfiguration) Hierarchy() []ports.ConfigurationPort {
	seen := map[string]struct{}{}
	var out []ports.ConfigurationPort
	var walk func(conf *boundConfiguration)
	walk = func(conf *boundConfiguration) {
		if _, ok := seen[conf.definition.Name]; ok {
			return
		}
		seen[conf.definition.Name] = struct{}{}
		out = append(out, conf)
		for _, parent := range conf.definition.Extends {
			walk(b.container.byName[parent])
		}
	}
	walk(b)
	return out
}

func (b *boundConfiguration) All() []ports.ConfigurationPort {
	return b.container.Configurations()
}

// Definitions unwraps bound configurations, keeping their order.
func Definitions(configurations []ports.ConfigurationPort) []types.Configuration {
	out := make([]types.Configuration, 0, len(configurations))
	for _, conf := range configurations {
		out = append(out, conf.Definition())
	}
	return out
}

// ConfigurationNames returns the sorted, unique names of configurations.
// Synthetic configurations are dropped unless includeSynthetic is set.
func ConfigurationNames(configurations []types.Configuration, includeSynthetic bool) []string {
	set := map[string]struct{}{}
	for _, conf := range configurations {
		if conf.Synthetic && !includeSynthetic {
			continue
		}
		set[conf.Name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.ConfigurationPort = (*boundConfiguration)(nil)
