package adapters

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/ports"
	"depman/internal/types"
)

const ivyFormatVersion = "2.0"

// DescriptorFileAdapter reads and writes ivy-style module descriptors.
type DescriptorFileAdapter struct{}

func NewDescriptorFileAdapter() DescriptorFileAdapter {
	return DescriptorFileAdapter{}
}

type ivyModule struct {
	XMLName        xml.Name        `xml:"ivy-module"`
	Version        string          `xml:"version,attr"`
	Info           ivyInfo         `xml:"info"`
	Configurations []ivyConf       `xml:"configurations>conf"`
	Publications   []ivyArtifact   `xml:"publications>artifact"`
	Dependencies   []ivyDependency `xml:"dependencies>dependency"`
}

type ivyInfo struct {
	Organisation string `xml:"organisation,attr"`
	Module       string `xml:"module,attr"`
	Revision     string `xml:"revision,attr"`
	Status       string `xml:"status,attr,omitempty"`
}

type ivyConf struct {
	Name        string `xml:"name,attr"`
	Visibility  string `xml:"visibility,attr"`
	Description string `xml:"description,attr,omitempty"`
	Extends     string `xml:"extends,attr,omitempty"`
	Transitive  string `xml:"transitive,attr,omitempty"`
}

type ivyArtifact struct {
	Name       string `xml:"name,attr"`
	Type       string `xml:"type,attr"`
	Ext        string `xml:"ext,attr"`
	Classifier string `xml:"classifier,attr,omitempty"`
	Conf       string `xml:"conf,attr"`
}

type ivyDependency struct {
	Org        string `xml:"org,attr"`
	Name       string `xml:"name,attr"`
	Rev        string `xml:"rev,attr"`
	Conf       string `xml:"conf,attr"`
	Transitive string `xml:"transitive,attr,omitempty"`
}

// WriteDescriptor overwrites path. The write is not atomic: a failure may
// leave a partial file behind.
func (a DescriptorFileAdapter) WriteDescriptor(path string, descriptor types.ModuleDescriptor) error {
	if strings.TrimSpace(path) == "" {
		return &types.DescriptorWriteError{
			Kind: types.DescriptorFailureIO,
			Path: path,
			Err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("descriptor path is empty"),
		}
	}
	data, err := a.RenderDescriptor(descriptor)
	if err != nil {
		return &types.DescriptorWriteError{Kind: types.DescriptorFailureMalformed, Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &types.DescriptorWriteError{
			Kind: types.DescriptorFailureIO,
			Path: path,
			Err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create descriptor directory").
				WithCause(err),
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &types.DescriptorWriteError{
			Kind: types.DescriptorFailureIO,
			Path: path,
			Err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write descriptor file").
				WithCause(err),
		}
	}
	return nil
}

func (a DescriptorFileAdapter) RenderDescriptor(descriptor types.ModuleDescriptor) ([]byte, error) {
	if err := validateDescriptor(descriptor); err != nil {
		return nil, err
	}
	data, err := xml.MarshalIndent(toIvyModule(descriptor), "", "  ")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to marshal descriptor").
			WithCause(err)
	}
	out := make([]byte, 0, len(xml.Header)+len(data)+1)
	out = append(out, xml.Header...)
	out = append(out, data...)
	return append(out, '\n'), nil
}

func (a DescriptorFileAdapter) ReadDescriptor(path string) (types.ModuleDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("descriptor file not found").
			WithCause(err)
	}
	return ParseDescriptor(data)
}

func ParseDescriptor(data []byte) (types.ModuleDescriptor, error) {
	var doc ivyModule
	if err := xml.Unmarshal(data, &doc); err != nil {
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse descriptor xml").
			WithCause(err)
	}
	descriptor := types.ModuleDescriptor{
		Module: types.ModuleID{
			Group:   doc.Info.Organisation,
			Name:    doc.Info.Module,
			Version: doc.Info.Revision,
			Status:  doc.Info.Status,
		},
	}
	for _, conf := range doc.Configurations {
		descriptor.Configurations = append(descriptor.Configurations, types.DescriptorConfiguration{
			Name:        conf.Name,
			Description: conf.Description,
			Extends:     splitList(conf.Extends),
			Private:     conf.Visibility == "private",
			Transitive:  conf.Transitive != "false",
		})
	}
	allConfs := descriptor.ConfigurationNames()
	for _, artifact := range doc.Publications {
		confs := splitList(artifact.Conf)
		if artifact.Conf == "" || artifact.Conf == "*" {
			confs = allConfs
		}
		descriptor.Artifacts = append(descriptor.Artifacts, types.DescriptorArtifact{
			Name:           artifact.Name,
			Type:           artifact.Type,
			Extension:      artifact.Ext,
			Classifier:     artifact.Classifier,
			Configurations: confs,
		})
	}
	for _, dep := range doc.Dependencies {
		for _, mapping := range parseConfMappings(dep.Conf) {
			descriptor.Dependencies = append(descriptor.Dependencies, types.DescriptorDependency{
				Group:         dep.Org,
				Name:          dep.Name,
				Version:       dep.Rev,
				Configuration: mapping[0],
				Target:        mapping[1],
				Transitive:    dep.Transitive != "false",
			})
		}
	}
	return descriptor, nil
}

func toIvyModule(descriptor types.ModuleDescriptor) ivyModule {
	doc := ivyModule{
		Version: ivyFormatVersion,
		Info: ivyInfo{
			Organisation: descriptor.Module.Group,
			Module:       descriptor.Module.Name,
			Revision:     descriptor.Module.Version,
			Status:       descriptor.Module.Status,
		},
	}
	for _, conf := range descriptor.Configurations {
		visibility := "public"
		if conf.Private {
			visibility = "private"
		}
		transitive := ""
		if !conf.Transitive {
			transitive = "false"
		}
		doc.Configurations = append(doc.Configurations, ivyConf{
			Name:        conf.Name,
			Visibility:  visibility,
			Description: conf.Description,
			Extends:     strings.Join(conf.Extends, ","),
			Transitive:  transitive,
		})
	}
	for _, artifact := range descriptor.Artifacts {
		doc.Publications = append(doc.Publications, ivyArtifact{
			Name:       artifact.Name,
			Type:       artifact.Type,
			Ext:        artifact.Extension,
			Classifier: artifact.Classifier,
			Conf:       strings.Join(artifact.Configurations, ","),
		})
	}
	for _, dep := range descriptor.Dependencies {
		transitive := ""
		if !dep.Transitive {
			transitive = "false"
		}
		doc.Dependencies = append(doc.Dependencies, ivyDependency{
			Org:        dep.Group,
			Name:       dep.Name,
			Rev:        dep.Version,
			Conf:       dep.Configuration + "->" + dep.Target,
			Transitive: transitive,
		})
	}
	return doc
}

// validateDescriptor rejects descriptors whose serialized form could not
// be read back with the same meaning.
func validateDescriptor(descriptor types.ModuleDescriptor) error {
	module := descriptor.Module
	if strings.TrimSpace(module.Group) == "" || strings.TrimSpace(module.Name) == "" || strings.TrimSpace(module.Version) == "" {
		return malformed("module group, name and version are required")
	}
	confs := map[string]struct{}{}
	for _, conf := range descriptor.Configurations {
		if err := validateConfName(conf.Name); err != nil {
			return err
		}
		if _, exists := confs[conf.Name]; exists {
			return malformed(fmt.Sprintf("duplicate configuration %s", conf.Name))
		}
		confs[conf.Name] = struct{}{}
	}
	for _, conf := range descriptor.Configurations {
		for _, parent := range conf.Extends {
			if _, ok := confs[parent]; !ok {
				return malformed(fmt.Sprintf("configuration %s extends unknown configuration %s", conf.Name, parent))
			}
		}
	}
	for _, artifact := range descriptor.Artifacts {
		if strings.TrimSpace(artifact.Name) == "" {
			return malformed("artifact name is required")
		}
		if len(artifact.Configurations) == 0 {
			return malformed(fmt.Sprintf("artifact %s has no configurations", artifact.Name))
		}
		for _, conf := range artifact.Configurations {
			if _, ok := confs[conf]; !ok {
				return malformed(fmt.Sprintf("artifact %s references unknown configuration %s", artifact.Name, conf))
			}
		}
	}
	for _, dep := range descriptor.Dependencies {
		if strings.TrimSpace(dep.Group) == "" || strings.TrimSpace(dep.Name) == "" || strings.TrimSpace(dep.Version) == "" {
			return malformed("dependency group, name and version are required")
		}
		if _, ok := confs[dep.Configuration]; !ok {
			return malformed(fmt.Sprintf("dependency %s:%s references unknown configuration %s", dep.Group, dep.Name, dep.Configuration))
		}
		if err := validateConfName(dep.Target); err != nil {
			return err
		}
	}
	return nil
}

func validateConfName(name string) error {
	if strings.TrimSpace(name) == "" {
		return malformed("configuration name is required")
	}
	if strings.ContainsAny(name, ",;*") || strings.Contains(name, "->") {
		return malformed(fmt.Sprintf("configuration name %q contains reserved characters", name))
	}
	return nil
}

func malformed(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

// parseConfMappings expands "a,b->c;d" into (a,c), (b,c), (d,default).
func parseConfMappings(value string) [][2]string {
	var out [][2]string
	for _, mapping := range strings.Split(value, ";") {
		mapping = strings.TrimSpace(mapping)
		if mapping == "" {
			continue
		}
		left, right, found := strings.Cut(mapping, "->")
		targets := []string{types.DefaultDependencyConfiguration}
		if found {
			targets = splitList(right)
		}
		for _, from := range splitList(left) {
			for _, to := range targets {
				out = append(out, [2]string{from, to})
			}
		}
	}
	return out
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var _ ports.DescriptorWriterPort = DescriptorFileAdapter{}
var _ ports.DescriptorReaderPort = DescriptorFileAdapter{}
