package types

import (
	"fmt"
	"path"
)

const (
	DescriptorArtifactName      = "ivy"
	DescriptorArtifactType      = "ivy"
	DescriptorArtifactExtension = "xml"
)

// ArtifactRef locates one file of a module version inside a repository.
type ArtifactRef struct {
	Group      string
	Module     string
	Version    string
	Name       string
	Type       string
	Extension  string
	Classifier string
}

func DescriptorRef(module ModuleID) ArtifactRef {
	return ArtifactRef{
		Group:     module.Group,
		Module:    module.Name,
		Version:   module.Version,
		Name:      DescriptorArtifactName,
		Type:      DescriptorArtifactType,
		Extension: DescriptorArtifactExtension,
	}
}

// FileName renders "<name>-<version>[-<classifier>].<ext>".
func (r ArtifactRef) FileName() string {
	name := fmt.Sprintf("%s-%s", r.Name, r.Version)
	if r.Classifier != "" {
		name += "-" + r.Classifier
	}
	if r.Extension != "" {
		name += "." + r.Extension
	}
	return name
}

// Path is the slash separated repository path of the artifact.
func (r ArtifactRef) Path() string {
	return path.Join(r.Group, r.Module, r.Version, r.FileName())
}

// WithChecksum returns the ref of the checksum file for algorithm.
func (r ArtifactRef) WithChecksum(algorithm ChecksumAlgorithm) ArtifactRef {
	out := r
	if out.Extension == "" {
		out.Extension = string(algorithm)
	} else {
		out.Extension = out.Extension + "." + string(algorithm)
	}
	return out
}

func (r ArtifactRef) ModuleID() ModuleID {
	return ModuleID{Group: r.Group, Name: r.Module, Version: r.Version}
}

type ResolvedArtifact struct {
	Ref      ArtifactRef
	Path     string
	Resolver string
}

type ResolvedModule struct {
	Module   ModuleID
	Resolver string
}

// ResolvedConfiguration is the outcome of resolving one configuration.
type ResolvedConfiguration struct {
	Configuration string
	Modules       []ResolvedModule
	Artifacts     []ResolvedArtifact
}

func (r ResolvedConfiguration) Files() []string {
	files := make([]string, 0, len(r.Artifacts))
	for _, artifact := range r.Artifacts {
		files = append(files, artifact.Path)
	}
	return files
}
