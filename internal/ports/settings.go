package ports

import "depman/internal/types"

type SettingsConverterPort interface {
	ConvertForResolve(resolvers []ResolverPort) types.EngineSettings
	ConvertForPublish(resolvers []ResolverPort) types.EngineSettings
}
