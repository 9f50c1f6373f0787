package types

// Project is the root of a project file: the module identity, its
// configuration graph and the ordered resolver endpoints.
type Project struct {
	Module         ModuleID           `yaml:"module" toml:"module"`
	Configurations []Configuration    `yaml:"configurations" toml:"configurations"`
	Resolvers      []ResolverEndpoint `yaml:"resolvers" toml:"resolvers"`
}

type ResolverEndpoint struct {
	Name          string        `yaml:"name" toml:"name"`
	Kind          ResolverKind  `yaml:"kind" toml:"kind"`
	Root          string        `yaml:"root,omitempty" toml:"root"`
	URL           string        `yaml:"url,omitempty" toml:"url"`
	Username      string        `yaml:"username,omitempty" toml:"username"`
	Password      string        `yaml:"password,omitempty" toml:"password"`
	VersionScheme VersionScheme `yaml:"version_scheme,omitempty" toml:"version_scheme"`
	TimeoutSec    int           `yaml:"timeout_sec,omitempty" toml:"timeout_sec"`
	Retries       int           `yaml:"retries,omitempty" toml:"retries"`
	RetryDelayMs  int           `yaml:"retry_delay_ms,omitempty" toml:"retry_delay_ms"`
}
