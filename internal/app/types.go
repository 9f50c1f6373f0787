package app

import "depman/internal/types"

type ValidateRequest struct {
	ProjectPath string
}

type ValidateResult struct {
	Module         types.ModuleID
	Configurations []string
	Resolvers      []string
}

type ResolveRequest struct {
	ProjectPath   string
	Configuration string
	CacheDir      string
}

type ResolveResult struct {
	Module   types.ModuleID
	Resolved types.ResolvedConfiguration
}

type PublishRequest struct {
	ProjectPath   string
	Configuration string
	// DescriptorPath, when set, receives the full module descriptor before
	// publishing and is uploaded alongside the artifacts.
	DescriptorPath string
	Overwrite      bool
	Checksums      []string
	MetricsFile    string
}

type PublishResult struct {
	Module         types.ModuleID
	Configurations []string
	Resolvers      []string
	DescriptorPath string
}

type InspectRequest struct {
	ProjectPath string
	// Configuration limits the descriptor to its hierarchy. Empty renders
	// the full module descriptor.
	Configuration string
}

type InspectResult struct {
	Descriptor types.ModuleDescriptor
	Rendered   []byte
}
