package types

// ModuleDescriptor is the serializable projection of a module: its
// identity, configurations, published artifacts and dependencies.
type ModuleDescriptor struct {
	Module         ModuleID
	Configurations []DescriptorConfiguration
	Artifacts      []DescriptorArtifact
	Dependencies   []DescriptorDependency
}

type DescriptorConfiguration struct {
	Name        string
	Description string
	Extends     []string
	Private     bool
	Transitive  bool
}

type DescriptorArtifact struct {
	Name           string
	Type           string
	Extension      string
	Classifier     string
	Configurations []string

	// File is the local source path. It is never serialized.
	File string
}

// DescriptorDependency maps one configuration of the described module onto
// a configuration of the dependency module ("Configuration->Target").
type DescriptorDependency struct {
	Group         string
	Name          string
	Version       string
	Configuration string
	Target        string
	Transitive    bool
}

func (d ModuleDescriptor) ConfigurationNames() []string {
	names := make([]string, 0, len(d.Configurations))
	for _, conf := range d.Configurations {
		names = append(names, conf.Name)
	}
	return names
}

// Configuration looks up a configuration by name.
func (d ModuleDescriptor) Configuration(name string) (DescriptorConfiguration, bool) {
	for _, conf := range d.Configurations {
		if conf.Name == name {
			return conf, true
		}
	}
	return DescriptorConfiguration{}, false
}
