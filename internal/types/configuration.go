package types

// Configuration is a named set of dependency declarations and artifacts.
// Extends lists parent configurations by name; the owning project graph
// resolves them.
type Configuration struct {
	Name         string                  `yaml:"name" toml:"name"`
	Description  string                  `yaml:"description,omitempty" toml:"description"`
	Extends      []string                `yaml:"extends,omitempty" toml:"extends"`
	Private      bool                    `yaml:"private,omitempty" toml:"private"`
	Transitive   *bool                   `yaml:"transitive,omitempty" toml:"transitive"`
	Dependencies []DependencyDeclaration `yaml:"dependencies,omitempty" toml:"dependencies"`
	Artifacts    []Artifact              `yaml:"artifacts,omitempty" toml:"artifacts"`

	// Synthetic marks auxiliary configurations introduced by the build
	// rather than declared by the user. They take part in hierarchy
	// closures but are never published by name.
	Synthetic bool `yaml:"synthetic,omitempty" toml:"synthetic"`
}

func (c Configuration) IsTransitive() bool {
	return c.Transitive == nil || *c.Transitive
}

type DependencyDeclaration struct {
	Group   string `yaml:"group" toml:"group"`
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`

	// Configuration is the configuration of the dependency module to use.
	// Empty means the engine default.
	Configuration string `yaml:"configuration,omitempty" toml:"configuration"`
	Transitive    *bool  `yaml:"transitive,omitempty" toml:"transitive"`
}

func (d DependencyDeclaration) IsTransitive() bool {
	return d.Transitive == nil || *d.Transitive
}

func (d DependencyDeclaration) Key() string {
	return d.Group + ":" + d.Name
}

type Artifact struct {
	Name       string `yaml:"name" toml:"name"`
	Type       string `yaml:"type,omitempty" toml:"type"`
	Extension  string `yaml:"extension,omitempty" toml:"extension"`
	Classifier string `yaml:"classifier,omitempty" toml:"classifier"`
	File       string `yaml:"file" toml:"file"`
}
