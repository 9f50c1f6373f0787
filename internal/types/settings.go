package types

const DefaultDependencyConfiguration = "default"

// EngineSettings is the settings bundle handed to the engine factory. It is
// built from the resolver list of a single operation and never reused.
type EngineSettings struct {
	Mode          EngineMode
	ResolverNames []string

	// VersionSchemes maps resolver names to the scheme used to order the
	// versions they host.
	VersionSchemes map[string]VersionScheme

	// DefaultDependencyConfiguration is the dependency-side configuration
	// used when a declaration does not name one.
	DefaultDependencyConfiguration string

	Overwrite bool
	Checksums []ChecksumAlgorithm
	CacheDir  string
}

func (s EngineSettings) VersionScheme(resolver string) VersionScheme {
	if scheme, ok := s.VersionSchemes[resolver]; ok && scheme != "" {
		return scheme
	}
	return VersionSchemeSemver
}
