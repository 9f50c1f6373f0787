package ports

import "depman/internal/types"

// ConfigurationPort is a configuration bound to the project graph that
// owns it.
type ConfigurationPort interface {
	Name() string
	Module() types.ModuleID
	Definition() types.Configuration

	// Hierarchy is the reflexive-transitive closure over parents, starting
	// with the configuration itself.
	Hierarchy() []ConfigurationPort

	// All returns every configuration of the owning project.
	All() []ConfigurationPort
}
