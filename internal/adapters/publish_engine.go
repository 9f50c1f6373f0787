package adapters

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depman/internal/ports"
	"depman/internal/types"
)

type EngineFactoryAdapter struct{}

func NewEngineFactoryAdapter() EngineFactoryAdapter {
	return EngineFactoryAdapter{}
}

func (f EngineFactoryAdapter) CreateEngine(settings types.EngineSettings) ports.PublishEnginePort {
	return PublishEngineAdapter{settings: settings}
}

// PublishEngineAdapter uploads a module's artifacts, checksum siblings and
// descriptor file to a single resolver.
type PublishEngineAdapter struct {
	settings types.EngineSettings
}

func (e PublishEngineAdapter) Settings() types.EngineSettings {
	return e.settings
}

func (e PublishEngineAdapter) Publish(ctx context.Context, descriptor types.ModuleDescriptor, configurations []string, resolver ports.ResolverPort, descriptorFile string) error {
	if e.settings.Mode != types.EngineModePublish {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("engine created for %s cannot publish", e.settings.Mode))
	}
	artifacts, err := publishableArtifacts(descriptor, configurations)
	if err != nil {
		return err
	}
	staging, err := os.MkdirTemp("", "depman-checksums-")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create checksum staging directory").
			WithCause(err)
	}
	defer os.RemoveAll(staging)

	for _, artifact := range artifacts {
		ref := types.ArtifactRef{
			Group:      descriptor.Module.Group,
			Module:     descriptor.Module.Name,
			Version:    descriptor.Module.Version,
			Name:       artifact.Name,
			Type:       artifact.Type,
			Extension:  artifact.Extension,
			Classifier: artifact.Classifier,
		}
		if err := e.put(ctx, resolver, ref, artifact.File, staging); err != nil {
			return err
		}
	}
	if descriptorFile != "" {
		if err := e.put(ctx, resolver, types.DescriptorRef(descriptor.Module), descriptorFile, staging); err != nil {
			return err
		}
	}
	return nil
}

func (e PublishEngineAdapter) put(ctx context.Context, resolver ports.ResolverPort, ref types.ArtifactRef, src string, staging string) error {
	if err := resolver.Put(ctx, ref, src, e.settings.Overwrite); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().
		Str("resolver", resolver.Name()).
		Str("artifact", ref.Path()).
		Msg("artifact published")
	for _, algorithm := range e.settings.Checksums {
		sum, err := fileChecksum(src, algorithm)
		if err != nil {
			return err
		}
		checksumRef := ref.WithChecksum(algorithm)
		checksumPath := filepath.Join(staging, checksumRef.FileName())
		if err := os.WriteFile(checksumPath, []byte(sum+"\n"), 0644); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to stage checksum file").
				WithCause(err)
		}
		if err := resolver.Put(ctx, checksumRef, checksumPath, e.settings.Overwrite); err != nil {
			return err
		}
	}
	return nil
}

// publishableArtifacts keeps the artifacts attached to at least one of the
// published configurations.
func publishableArtifacts(descriptor types.ModuleDescriptor, configurations []string) ([]types.DescriptorArtifact, error) {
	wanted := make(map[string]struct{}, len(configurations))
	for _, name := range configurations {
		wanted[name] = struct{}{}
	}
	var out []types.DescriptorArtifact
	for _, artifact := range descriptor.Artifacts {
		matched := false
		for _, conf := range artifact.Configurations {
			if _, ok := wanted[conf]; ok {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if strings.TrimSpace(artifact.File) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("artifact %s has no file", artifact.Name))
		}
		out = append(out, artifact)
	}
	return out, nil
}

func fileChecksum(path string, algorithm types.ChecksumAlgorithm) (string, error) {
	var h hash.Hash
	switch algorithm {
	case types.ChecksumSHA1:
		h = sha1.New()
	case types.ChecksumSHA256:
		h = sha256.New()
	case types.ChecksumMD5:
		h = md5.New()
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported checksum algorithm %s", algorithm))
	}
	file, err := os.Open(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open artifact for checksum").
			WithCause(err)
	}
	defer file.Close()
	if _, err := io.Copy(h, file); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to hash artifact").
			WithCause(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var _ ports.EngineFactoryPort = EngineFactoryAdapter{}
var _ ports.PublishEnginePort = PublishEngineAdapter{}
