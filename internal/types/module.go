package types

import "fmt"

const DefaultModuleStatus = "integration"

// ModuleID identifies a publishable unit. It is created once per project
// and never mutated.
type ModuleID struct {
	Group   string `yaml:"group" toml:"group"`
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`
	Status  string `yaml:"status,omitempty" toml:"status"`
}

func (m ModuleID) String() string {
	return fmt.Sprintf("%s:%s:%s", m.Group, m.Name, m.Version)
}

// Key identifies the module independently of its version.
func (m ModuleID) Key() string {
	return m.Group + ":" + m.Name
}
