package adapters

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/ports"
	"depman/internal/types"
)

type SettingsConverterAdapter struct {
	CacheDir                       string
	Overwrite                      bool
	Checksums                      []types.ChecksumAlgorithm
	DefaultDependencyConfiguration string
}

func NewSettingsConverterAdapter(cacheDir string, overwrite bool, checksums []types.ChecksumAlgorithm) SettingsConverterAdapter {
	return SettingsConverterAdapter{
		CacheDir:                       cacheDir,
		Overwrite:                      overwrite,
		Checksums:                      checksums,
		DefaultDependencyConfiguration: types.DefaultDependencyConfiguration,
	}
}

func (a SettingsConverterAdapter) ConvertForResolve(resolvers []ports.ResolverPort) types.EngineSettings {
	settings := a.base(types.EngineModeResolve, resolvers)
	settings.CacheDir = a.CacheDir
	return settings
}

// ConvertForPublish accepts an empty resolver list; publishers report the
// missing resolvers.
func (a SettingsConverterAdapter) ConvertForPublish(resolvers []ports.ResolverPort) types.EngineSettings {
	settings := a.base(types.EngineModePublish, resolvers)
	settings.Overwrite = a.Overwrite
	settings.Checksums = append([]types.ChecksumAlgorithm(nil), a.Checksums...)
	return settings
}

func (a SettingsConverterAdapter) base(mode types.EngineMode, resolvers []ports.ResolverPort) types.EngineSettings {
	defaultConf := strings.TrimSpace(a.DefaultDependencyConfiguration)
	if defaultConf == "" {
		defaultConf = types.DefaultDependencyConfiguration
	}
	settings := types.EngineSettings{
		Mode:                           mode,
		ResolverNames:                  make([]string, 0, len(resolvers)),
		VersionSchemes:                 make(map[string]types.VersionScheme, len(resolvers)),
		DefaultDependencyConfiguration: defaultConf,
	}
	for _, resolver := range resolvers {
		settings.ResolverNames = append(settings.ResolverNames, resolver.Name())
		settings.VersionSchemes[resolver.Name()] = resolver.Scheme()
	}
	return settings
}

// ParseChecksums normalizes checksum algorithm names, dropping duplicates.
func ParseChecksums(values []string) ([]types.ChecksumAlgorithm, error) {
	seen := map[types.ChecksumAlgorithm]struct{}{}
	var out []types.ChecksumAlgorithm
	for _, value := range values {
		algorithm := types.ChecksumAlgorithm(strings.ToLower(strings.TrimSpace(value)))
		if algorithm == "" {
			continue
		}
		switch algorithm {
		case types.ChecksumSHA1, types.ChecksumSHA256, types.ChecksumMD5:
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported checksum algorithm %s", value))
		}
		if _, ok := seen[algorithm]; ok {
			continue
		}
		seen[algorithm] = struct{}{}
		out = append(out, algorithm)
	}
	return out, nil
}

var _ ports.SettingsConverterPort = SettingsConverterAdapter{}
